package prompts

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptText(t *testing.T, res *sdkmcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, res.Messages, 1)
	text, ok := res.Messages[0].Content.(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestChooseRelay_Filters(t *testing.T) {
	h := HandleChooseRelay(&Config{RelayLimit: 25})
	res, err := h(context.Background(), &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{
		Name:      "choose_relay",
		Arguments: map[string]string{"country": "se", "city": "got"},
	}})
	require.NoError(t, err)

	text := promptText(t, res)
	assert.Contains(t, text, `mullvad_list_relays(type: "wireguard", active_only: true, country: "se", city: "got")`)
	assert.Contains(t, text, "capped at 25")
	assert.NotContains(t, text, "mullvad_server_list()")
}

func TestChooseRelay_NoLocationSurveysFirst(t *testing.T) {
	h := HandleChooseRelay(&Config{RelayLimit: 10})
	res, err := h(context.Background(), &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{
		Name:      "choose_relay",
		Arguments: map[string]string{"protocol": "bridge"},
	}})
	require.NoError(t, err)

	text := promptText(t, res)
	assert.Contains(t, text, "mullvad_server_list()")
	assert.Contains(t, text, `type: "bridge"`)
	assert.Contains(t, text, "Bridges only carry OpenVPN traffic")
}

func TestCheckConnection(t *testing.T) {
	h := HandleCheckConnection(&Config{StatusCheck: true, HasToken: true})
	res, err := h(context.Background(), &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{
		Name:      "check_connection",
		Arguments: map[string]string{"expected_relay": "se-got-wg-001"},
	}})
	require.NoError(t, err)

	text := promptText(t, res)
	assert.Contains(t, text, `"se-got-wg-001"`)
	assert.NotContains(t, text, "not classified")
	assert.NotContains(t, text, "No access token")
}
