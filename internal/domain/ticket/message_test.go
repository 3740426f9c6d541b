package ticket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/shared/id"
)

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		attachments []string
		wantErr     string
	}{
		{"plain reply", "Hello there", nil, ""},
		{"attachments only", "   ", []string{"tickets/tkt_1/1700000000000_ab.png"}, ""},
		{"empty without attachments", "  \n ", nil, "content or attachments"},
		{"too long", strings.Repeat("a", 10001), nil, "exceeds maximum length"},
		{"foreign attachment", "hi", []string{"tickets/tkt_2/x.png"}, "does not belong"},
		{"traversal", "hi", []string{"tickets/tkt_1/../tkt_2/x.png"}, "does not belong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMessage("tkt_1", "usr_a", tt.content, false, tt.attachments)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, id.ValidatePrefix(m.ID(), id.PrefixMessage))
			assert.Len(t, m.Attachments(), len(tt.attachments))
		})
	}
}

func TestNewMessage_RequiresReferences(t *testing.T) {
	_, err := NewMessage("", "usr_a", "hi", false, nil)
	assert.Error(t, err)
	_, err = NewMessage("tkt_1", "", "hi", false, nil)
	assert.Error(t, err)
}

func TestMessage_CanBeViewedBy(t *testing.T) {
	note, err := NewMessage("tkt_1", "usr_agent", "customer is VIP", true, nil)
	require.NoError(t, err)
	assert.True(t, note.IsInternal())
	assert.False(t, note.CanBeViewedBy(false))
	assert.True(t, note.CanBeViewedBy(true))

	reply, err := NewMessage("tkt_1", "usr_agent", "On it", false, nil)
	require.NoError(t, err)
	assert.True(t, reply.CanBeViewedBy(false))
}

func TestIsTicketPath(t *testing.T) {
	assert.True(t, IsTicketPath("tkt_1", "tickets/tkt_1/a.png"))
	assert.False(t, IsTicketPath("tkt_1", "tickets/tkt_1/"))
	assert.False(t, IsTicketPath("tkt_1", "tickets/tkt_10/a.png"))
	assert.False(t, IsTicketPath("tkt_1", "messages/tkt_1/a.png"))
}
