package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

func TestCheckOutputSchema_panicsOnNilSlice(t *testing.T) {
	type BadOutput struct {
		Hostnames []string `json:"hostnames"` // nil marshals as null, schema expects array
	}
	assert.Panics(t, func() {
		CheckOutputSchema[BadOutput]("test_bad_tool")
	})
}

func TestCheckOutputSchema_okWithOmitzero(t *testing.T) {
	type GoodOutput struct {
		Hostnames []string `json:"hostnames,omitzero"`
	}
	assert.NotPanics(t, func() {
		CheckOutputSchema[GoodOutput]("test_good_tool")
	})
}

func TestCheckOutputSchema_okWithAny(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckOutputSchema[any]("test_any_tool")
	})
}

func TestCheckOutputSchema_panicsOnRawMessage(t *testing.T) {
	type BadOutput struct {
		Body json.RawMessage `json:"body,omitempty"`
	}
	assert.Panics(t, func() {
		CheckOutputSchema[BadOutput]("test_raw_message")
	})
}

func TestCheckOutputSchema_builtinOutputs(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckOutputSchema[ListRelaysOutput]("mullvad_list_relays")
		CheckOutputSchema[ServerListOutput]("mullvad_server_list")
		CheckOutputSchema[ConnectionStatusOutput]("mullvad_connection_status")
		CheckOutputSchema[AccountInfoOutput]("mullvad_account_info")
		CheckOutputSchema[ReleaseInfoOutput]("mullvad_release_info")
		CheckOutputSchema[APIAddressesOutput]("mullvad_api_addresses")
		CheckOutputSchema[ListEndpointsOutput]("mullvad_list_endpoints")
		CheckOutputSchema[EndpointSchemaOutput]("mullvad_endpoint_schema")
		CheckOutputSchema[QueryOutput]("mullvad_query")
	})
}

func TestToAny_DropsAbsentFields(t *testing.T) {
	city := "Gothenburg"
	v, err := ToAny(mullvad.Location{City: &city})
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"city": "Gothenburg"}, v)
}
