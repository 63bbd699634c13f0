package tools

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/config"
	"github.com/and-viceversa/mullvad-api-wrapper/internal/query"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Client *mullvad.Client
	Config *config.Config
	Query  *query.Engine

	inflight singleflight.Group
}

// RelayList fetches the relay list. Concurrent callers share one request,
// which runs until it completes even if the caller that started it gives up.
// Each caller still returns as soon as its own ctx is done.
func (d *Deps) RelayList(ctx context.Context) (*mullvad.RelayList, error) {
	shared := context.WithoutCancel(ctx)
	ch := d.inflight.DoChan(mullvad.EndpointRelayList, func() (any, error) {
		return d.Client.RelayList(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*mullvad.RelayList), nil
	}
}

// relayLimit resolves a requested relay limit against the configured default.
// Negative means no limit.
func (d *Deps) relayLimit(requested int) int {
	switch {
	case requested < 0:
		return 0
	case requested == 0:
		return d.Config.RelayLimitDefault
	default:
		return requested
	}
}
