// Package mullvad provides a Go SDK for the Mullvad VPN HTTP APIs.
//
// Three services are covered: the public API (server lists, accounts,
// vouchers), the app API (relay list, releases, problem reports, payments)
// and the am.i.mullvad.net connection check.
//
// # Quick Start
//
// Open a session, call endpoints, close the session:
//
//	c := mullvad.New()
//	defer c.Close()
//
//	list, err := c.WireGuardServerListV2(ctx)
//
// Use custom configuration:
//
//	c := mullvad.New(
//	    mullvad.WithBaseURL("http://localhost:8080"),
//	    mullvad.WithTimeout(10*time.Second),
//	)
//
// # Session Lifecycle
//
// A Client is open from New until Close. Close is idempotent. Every endpoint
// method called afterwards returns ErrSessionClosed without touching the
// network.
//
// # Parameters
//
// Endpoints that take input validate it before sending anything. Scalar
// arguments are checked the same way as the params records built with the
// NewXxxParams constructors:
//
//	p, err := mullvad.NewReleaseParams("linux", "2024.3")
//	info, err := c.ReleaseInfoWithParams(ctx, p)
//
// Invalid input fails with *ValidationError, which lists every rejected field.
//
// # Responses
//
// Typed endpoints return records whose optional fields are nil when the
// server omitted them or sent null. A body that is not JSON, lacks a required
// field or has a mistyped field fails with *ParseError. Records serialize
// back to JSON with Serialize:
//
//	data, err := mullvad.Serialize(list, mullvad.SerializeOptions{ExcludeNone: true})
//
// The connection check endpoints and APIAddresses return a *RawResponse
// with Text, JSON and gjson Get accessors.
//
// # Errors
//
// Network failures are returned exactly as net/http produced them. HTTP
// status codes are not interpreted unless the client is created with
// WithStatusCheck(true), in which case a status of 400 or above yields
// *APIError.
package mullvad
