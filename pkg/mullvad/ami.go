package mullvad

import "context"

// The connection check service answers in plain text, except /json. Its
// responses are returned raw.

// AmIIP returns the public IP address the request came from.
func (c *Client) AmIIP(ctx context.Context) (*RawResponse, error) {
	return c.do(ctx, epAmIIP, request{})
}

// AmICity returns the city the public IP geolocates to.
func (c *Client) AmICity(ctx context.Context) (*RawResponse, error) {
	return c.do(ctx, epAmICity, request{})
}

// AmICountry returns the country the public IP geolocates to.
func (c *Client) AmICountry(ctx context.Context) (*RawResponse, error) {
	return c.do(ctx, epAmICountry, request{})
}

// AmIConnected returns a sentence telling whether traffic leaves through a
// Mullvad relay.
func (c *Client) AmIConnected(ctx context.Context) (*RawResponse, error) {
	return c.do(ctx, epAmIConnected, request{})
}

// AmIJSON returns the full connection profile as JSON. Decode it with
// RawResponse.JSON into an IPProfile.
func (c *Client) AmIJSON(ctx context.Context) (*RawResponse, error) {
	return c.do(ctx, epAmIJSON, request{})
}

// Profile fetches and decodes the connection profile.
func (c *Client) Profile(ctx context.Context) (*IPProfile, error) {
	raw, err := c.AmIJSON(ctx)
	if err != nil {
		return nil, err
	}
	var p IPProfile
	if err := raw.JSON(&p); err != nil {
		return nil, withResponse(err, epAmIJSON, raw)
	}
	return &p, nil
}
