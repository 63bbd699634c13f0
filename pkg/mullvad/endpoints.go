package mullvad

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
)

// API identifies which base URL an endpoint lives under.
type API string

const (
	AppAPI    API = "app"
	PublicAPI API = "public"
	AmIAPI    API = "am-i"
)

// Auth describes how an endpoint is authenticated.
type Auth string

const (
	AuthNone        Auth = "none"
	AuthBearer      Auth = "bearer"       // Authorization: Bearer <access token>
	AuthAccountPath Auth = "account-path" // account number as a path segment
	AuthAccountForm Auth = "account-form" // account number as a form field
)

// Endpoint describes one remote resource.
type Endpoint struct {
	Name   string
	Method string
	API    API
	// Path is relative to the API base URL; "{name}" segments are path parameters.
	Path string
	Auth Auth
	// Params is the request parameters type, nil when the endpoint takes none.
	Params reflect.Type
	// Response is the parsed record type, nil when the raw response is returned.
	Response reflect.Type
}

// RequiresAuth reports whether the endpoint needs an account number or token.
func (e Endpoint) RequiresAuth() bool {
	return e.Auth != AuthNone
}

// PathParams returns the names of the "{name}" segments in Path, in order.
func (e Endpoint) PathParams() []string {
	var names []string
	for _, seg := range strings.Split(e.Path, "/") {
		if name, ok := pathParamName(seg); ok {
			names = append(names, name)
		}
	}
	return names
}

// URL joins base and Path, substituting path parameters with escaped values.
func (e Endpoint) URL(base string, params map[string]string) (*url.URL, error) {
	segs := strings.Split(e.Path, "/")
	for i, seg := range segs {
		name, ok := pathParamName(seg)
		if !ok {
			continue
		}
		v, ok := params[name]
		if !ok || v == "" {
			return nil, fmt.Errorf("endpoint %s: missing path parameter %q", e.Name, name)
		}
		segs[i] = url.PathEscape(v)
	}

	u, err := url.Parse(strings.TrimSuffix(base, "/") + strings.Join(segs, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}
	return u, nil
}

func pathParamName(seg string) (string, bool) {
	if len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}

// Endpoint names.
const (
	EndpointOpenVPNServerList     = "openvpn_server_list"
	EndpointWireGuardServerListV1 = "wireguard_server_list_v1"
	EndpointWireGuardServerListV2 = "wireguard_server_list_v2"
	EndpointCreateAccount         = "create_account"
	EndpointAccountInformation    = "account_information"
	EndpointActivateVoucher       = "activate_voucher"
	EndpointRelayList             = "relay_list"
	EndpointAPIAddresses          = "api_addresses"
	EndpointSubmitVoucher         = "submit_voucher"
	EndpointSubmitProblemReport   = "submit_problem_report"
	EndpointWebsiteAuthToken      = "website_auth_token"
	EndpointReleaseInfo           = "release_info"
	EndpointCreateApplePayment    = "create_apple_payment"
	EndpointAmIIP                 = "am_i_ip"
	EndpointAmICity               = "am_i_city"
	EndpointAmICountry            = "am_i_country"
	EndpointAmIConnected          = "am_i_connected"
	EndpointAmIJSON               = "am_i_json"
)

var (
	epOpenVPNServerList = Endpoint{
		Name: EndpointOpenVPNServerList, Method: http.MethodGet, API: PublicAPI,
		Path: "/relays/v1", Auth: AuthNone,
		Response: reflect.TypeFor[ServerList](),
	}
	epWireGuardServerListV1 = Endpoint{
		Name: EndpointWireGuardServerListV1, Method: http.MethodGet, API: PublicAPI,
		Path: "/relays/wireguard/v1", Auth: AuthNone,
		Response: reflect.TypeFor[ServerList](),
	}
	epWireGuardServerListV2 = Endpoint{
		Name: EndpointWireGuardServerListV2, Method: http.MethodGet, API: PublicAPI,
		Path: "/relays/wireguard/v2", Auth: AuthNone,
		Response: reflect.TypeFor[WireGuardServerListV2](),
	}
	epCreateAccount = Endpoint{
		Name: EndpointCreateAccount, Method: http.MethodPost, API: PublicAPI,
		Path: "/accounts/v1", Auth: AuthNone,
		Response: reflect.TypeFor[Account](),
	}
	epAccountInformation = Endpoint{
		Name: EndpointAccountInformation, Method: http.MethodGet, API: PublicAPI,
		Path: "/accounts/v1/{account}", Auth: AuthAccountPath,
		Params:   reflect.TypeFor[AccountParams](),
		Response: reflect.TypeFor[Account](),
	}
	epActivateVoucher = Endpoint{
		Name: EndpointActivateVoucher, Method: http.MethodPost, API: PublicAPI,
		Path: "/vouchers/submit/v1", Auth: AuthAccountForm,
		Params:   reflect.TypeFor[ActivateVoucherParams](),
		Response: reflect.TypeFor[ActivateVoucherResponse](),
	}
	epRelayList = Endpoint{
		Name: EndpointRelayList, Method: http.MethodGet, API: AppAPI,
		Path: "/v1/relays", Auth: AuthNone,
		Response: reflect.TypeFor[RelayList](),
	}
	epAPIAddresses = Endpoint{
		Name: EndpointAPIAddresses, Method: http.MethodGet, API: AppAPI,
		Path: "/v1/api-addrs", Auth: AuthNone,
	}
	epSubmitVoucher = Endpoint{
		Name: EndpointSubmitVoucher, Method: http.MethodPost, API: AppAPI,
		Path: "/v1/submit-voucher", Auth: AuthBearer,
		Params:   reflect.TypeFor[SubmitVoucherParams](),
		Response: reflect.TypeFor[SubmitVoucherResponse](),
	}
	epSubmitProblemReport = Endpoint{
		Name: EndpointSubmitProblemReport, Method: http.MethodPost, API: AppAPI,
		Path: "/v1/problem-report", Auth: AuthBearer,
		Params:   reflect.TypeFor[ProblemReportParams](),
		Response: reflect.TypeFor[ProblemReportResponse](),
	}
	epWebsiteAuthToken = Endpoint{
		Name: EndpointWebsiteAuthToken, Method: http.MethodPost, API: AppAPI,
		Path: "/v1/www-auth-token", Auth: AuthBearer,
		Params:   reflect.TypeFor[WebsiteTokenParams](),
		Response: reflect.TypeFor[AuthToken](),
	}
	epReleaseInfo = Endpoint{
		Name: EndpointReleaseInfo, Method: http.MethodGet, API: AppAPI,
		Path: "/v1/releases/{platform}/{version}", Auth: AuthNone,
		Params:   reflect.TypeFor[ReleaseParams](),
		Response: reflect.TypeFor[ReleaseInfo](),
	}
	epCreateApplePayment = Endpoint{
		Name: EndpointCreateApplePayment, Method: http.MethodPost, API: AppAPI,
		Path: "/v1/create-apple-payment", Auth: AuthBearer,
		Params:   reflect.TypeFor[ApplePaymentParams](),
		Response: reflect.TypeFor[ApplePaymentResponse](),
	}
	epAmIIP        = amI(EndpointAmIIP, "/ip")
	epAmICity      = amI(EndpointAmICity, "/city")
	epAmICountry   = amI(EndpointAmICountry, "/country")
	epAmIConnected = amI(EndpointAmIConnected, "/connected")
	epAmIJSON      = amI(EndpointAmIJSON, "/json")
)

func amI(name, path string) Endpoint {
	return Endpoint{Name: name, Method: http.MethodGet, API: AmIAPI, Path: path, Auth: AuthNone}
}

// Endpoints returns the catalog of supported endpoints.
func Endpoints() []Endpoint {
	return []Endpoint{
		epOpenVPNServerList,
		epWireGuardServerListV1,
		epWireGuardServerListV2,
		epCreateAccount,
		epAccountInformation,
		epActivateVoucher,
		epRelayList,
		epAPIAddresses,
		epSubmitVoucher,
		epSubmitProblemReport,
		epWebsiteAuthToken,
		epReleaseInfo,
		epCreateApplePayment,
		epAmIIP,
		epAmICity,
		epAmICountry,
		epAmIConnected,
		epAmIJSON,
	}
}

// LookupEndpoint finds an endpoint by name.
func LookupEndpoint(name string) (Endpoint, bool) {
	for _, ep := range Endpoints() {
		if ep.Name == name {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// EndpointInfo is the serializable description of an Endpoint.
type EndpointInfo struct {
	Name       string   `json:"name"`
	Method     string   `json:"method"`
	API        API      `json:"api"`
	Path       string   `json:"path"`
	Auth       Auth     `json:"auth"`
	PathParams []string `json:"path_params,omitempty"`
	Params     string   `json:"params,omitempty"`   // params type name
	Response   string   `json:"response,omitempty"` // record type name, empty for raw responses
}

// Info describes e without reflect types.
func (e Endpoint) Info() EndpointInfo {
	info := EndpointInfo{
		Name:       e.Name,
		Method:     e.Method,
		API:        e.API,
		Path:       e.Path,
		Auth:       e.Auth,
		PathParams: e.PathParams(),
	}
	if e.Params != nil {
		info.Params = e.Params.Name()
	}
	if e.Response != nil {
		info.Response = e.Response.Name()
	}
	return info
}

// Fetchable reports whether e can be called by name through Client.Fetch:
// a GET without parameters.
func (e Endpoint) Fetchable() bool {
	return e.Method == http.MethodGet && e.Params == nil
}
