package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnListBeatsFlatContent(t *testing.T) {
	r := &relayResponse{
		Messages: []relayTurn{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "from the turn list"},
		},
		Content: "from the flat field",
	}

	assert.Equal(t, "from the turn list", extractReplyText(r))
}

func TestMostRecentAssistantTurnWins(t *testing.T) {
	r := &relayResponse{
		Messages: []relayTurn{
			{Role: "assistant", Content: "older reply"},
			{Role: "user", Content: "follow-up"},
			{Role: "assistant", Content: "newest reply"},
		},
	}

	assert.Equal(t, "newest reply", extractReplyText(r))
}

func TestEmptyAssistantEntriesAreSkipped(t *testing.T) {
	r := &relayResponse{
		Messages: []relayTurn{
			{Role: "assistant", Content: "real reply"},
			{Role: "assistant", Content: "   "},
		},
	}

	assert.Equal(t, "real reply", extractReplyText(r))
}

func TestFlatFieldFallbackOrder(t *testing.T) {
	cases := []struct {
		name string
		r    relayResponse
		want string
	}{
		{"content wins over message", relayResponse{Content: "c", Message: "m", Response: "r"}, "c"},
		{"message wins over response", relayResponse{Message: "m", Response: "r"}, "m"},
		{"response is last resort", relayResponse{Response: "r"}, "r"},
		{"whitespace content falls through", relayResponse{Content: "  ", Message: "m"}, "m"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractReplyText(&tc.r))
		})
	}
}

func TestCannedFallbackWhenNothingExtracts(t *testing.T) {
	assert.Equal(t, FallbackReply, extractReplyText(&relayResponse{}))

	onlyUserTurns := &relayResponse{
		Messages: []relayTurn{{Role: "user", Content: "hi"}},
	}
	assert.Equal(t, FallbackReply, extractReplyText(onlyUserTurns))
}
