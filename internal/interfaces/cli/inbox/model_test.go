package inbox

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/sdk/helpdesk"
)

type stubAPI struct {
	page    *helpdesk.TicketPage
	tickets map[string]*helpdesk.Ticket
	sent    []helpdesk.SendMessageInput
}

func (s *stubAPI) ListTickets(ctx context.Context, params helpdesk.ListTicketsParams) (*helpdesk.TicketPage, error) {
	return s.page, nil
}

func (s *stubAPI) GetTicket(ctx context.Context, ticketID string) (*helpdesk.Ticket, error) {
	t := *s.tickets[ticketID]
	t.Messages = append([]helpdesk.Message(nil), t.Messages...)
	return &t, nil
}

func (s *stubAPI) UploadAttachment(ctx context.Context, ticketID, fileName string, content io.Reader) (*helpdesk.Attachment, error) {
	return &helpdesk.Attachment{ID: "att_" + fileName, Path: "tickets/" + ticketID + "/" + fileName}, nil
}

func (s *stubAPI) DeleteAttachment(ctx context.Context, attachmentID string) error {
	return nil
}

func (s *stubAPI) SendMessage(ctx context.Context, ticketID string, in helpdesk.SendMessageInput) (*helpdesk.Message, error) {
	s.sent = append(s.sent, in)
	return &helpdesk.Message{
		ID:          "msg_new",
		TicketID:    ticketID,
		Content:     in.Content,
		IsInternal:  in.IsInternal,
		Attachments: in.Attachments,
		CreatedAt:   time.Now(),
	}, nil
}

type recordingFeed struct {
	filters [][]helpdesk.Filter
}

func (f *recordingFeed) SetFilters(filters ...helpdesk.Filter) error {
	f.filters = append(f.filters, filters)
	return nil
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		page: &helpdesk.TicketPage{Items: []helpdesk.Ticket{
			{ID: "tkt_2", Title: "Refund request", Status: "open"},
			{ID: "tkt_1", Title: "Cannot log in", Status: "new"},
		}},
		tickets: map[string]*helpdesk.Ticket{
			"tkt_1": {ID: "tkt_1", Title: "Cannot log in", Status: "new", Messages: []helpdesk.Message{
				{ID: "msg_1", TicketID: "tkt_1", Content: "hello"},
			}},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// openTicket loads the list and opens the second row.
func openTicket(t *testing.T, api *stubAPI, me *helpdesk.User, feed filterSetter) Model {
	t.Helper()
	inbox := helpdesk.NewInbox(api, helpdesk.ListTicketsParams{})
	m := NewModel(context.Background(), api, inbox, me, feed, nil)

	m, _ = step(t, m, m.fetchTickets()())
	require.Len(t, m.inbox.Tickets(), 2)

	m, _ = step(t, m, key("j"))
	assert.Equal(t, 1, m.cursor)

	m, cmd := step(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, focusThread, m.focus)

	m, cmd = step(t, m, cmd())
	require.NotNil(t, m.inbox.Selected())
	assert.Equal(t, "tkt_1", m.inbox.Selected().ID)
	if cmd != nil {
		cmd()
	}
	return m
}

func TestModel_OpenTicketSubscribesToThread(t *testing.T) {
	feed := &recordingFeed{}
	m := openTicket(t, newStubAPI(), &helpdesk.User{Name: "Ana", Role: "agent"}, feed)

	require.Len(t, feed.filters, 1)
	assert.Equal(t, []helpdesk.Filter{
		{Table: helpdesk.TableTickets},
		{Table: helpdesk.TableMessages, TicketID: "tkt_1"},
	}, feed.filters[0])
	assert.Contains(t, m.View(), "Cannot log in")
	assert.Contains(t, m.renderThread(), "hello")
}

func TestModel_ToggleNoteAndSend(t *testing.T) {
	api := newStubAPI()
	m := openTicket(t, api, &helpdesk.User{Role: "agent"}, nil)

	m, _ = step(t, m, key("tab"))
	assert.True(t, m.inbox.Composer().IsInternal())
	assert.Equal(t, m.inbox.Composer().Placeholder(), m.input.Placeholder)

	m, _ = step(t, m, key("i"))
	assert.Equal(t, focusCompose, m.focus)

	m, _ = step(t, m, key("checked the logs"))
	assert.Equal(t, "checked the logs", m.input.Value())

	m, cmd := step(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.sending)

	m, _ = step(t, m, cmd())
	assert.False(t, m.sending)
	assert.Empty(t, m.input.Value())
	require.Len(t, api.sent, 1)
	assert.True(t, api.sent[0].IsInternal)

	thread := m.inbox.Thread()
	require.Len(t, thread, 2)
	assert.Equal(t, "msg_new", thread[1].ID)
}

func TestModel_CustomerCannotToggle(t *testing.T) {
	m := openTicket(t, newStubAPI(), &helpdesk.User{Role: "customer"}, nil)

	m, _ = step(t, m, key("tab"))

	assert.False(t, m.inbox.Composer().IsInternal())
}

func TestModel_AttachAndDetach(t *testing.T) {
	m := openTicket(t, newStubAPI(), &helpdesk.User{Role: "agent"}, nil)
	m, _ = step(t, m, key("i"))

	m, _ = step(t, m, key("/attach /tmp/screenshot.png"))
	m, cmd := step(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"screenshot.png"}, m.inbox.Composer().Staged())
	assert.Empty(t, m.input.Value())

	m, _ = step(t, m, key("/detach screenshot.png"))
	m, _ = step(t, m, key("enter"))
	assert.Empty(t, m.inbox.Composer().Staged())
}

func TestModel_EmptySendShowsError(t *testing.T) {
	m := openTicket(t, newStubAPI(), &helpdesk.User{Role: "agent"}, nil)
	m, _ = step(t, m, key("i"))

	m, cmd := step(t, m, key("enter"))
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())

	assert.Equal(t, helpdesk.ErrTextEmpty, m.inbox.Err())
	assert.Contains(t, m.renderFooter(), helpdesk.ErrTextEmpty)
}

func TestModel_FeedChanges(t *testing.T) {
	m := openTicket(t, newStubAPI(), &helpdesk.User{Role: "agent"}, nil)

	data, err := json.Marshal(helpdesk.Message{ID: "msg_2", TicketID: "tkt_1", Content: "any update?"})
	require.NoError(t, err)
	m, _ = step(t, m, feedMsg{event: helpdesk.FeedEvent{
		Type: helpdesk.EventChange,
		Change: helpdesk.Change{
			Table: helpdesk.TableMessages, Op: helpdesk.OpUpsert,
			RowID: "msg_2", TicketID: "tkt_1", Data: data,
		},
	}})
	assert.Len(t, m.inbox.Thread(), 2)
	assert.Contains(t, m.renderThread(), "any update?")

	m, _ = step(t, m, feedMsg{event: helpdesk.FeedEvent{
		Type:   helpdesk.EventChange,
		Change: helpdesk.Change{Table: helpdesk.TableTickets, Op: helpdesk.OpDelete, RowID: "tkt_1"},
	}})
	assert.Nil(t, m.inbox.Selected())
	assert.Equal(t, focusList, m.focus)
	assert.Len(t, m.inbox.Tickets(), 1)
	assert.Equal(t, 0, m.cursor)
}

func TestModel_DeletedSelectionResubscribesToListOnly(t *testing.T) {
	feed := &recordingFeed{}
	m := openTicket(t, newStubAPI(), &helpdesk.User{Role: "agent"}, feed)
	require.Len(t, feed.filters, 1)

	cmd := m.handleFeedEvent(helpdesk.FeedEvent{
		Type:   helpdesk.EventChange,
		Change: helpdesk.Change{Table: helpdesk.TableTickets, Op: helpdesk.OpDelete, RowID: "tkt_1"},
	})
	require.Nil(t, m.inbox.Selected())
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, feed.filters, 2)
	assert.Equal(t, []helpdesk.Filter{{Table: helpdesk.TableTickets}}, feed.filters[1])
}

func TestModel_FeedConnectionState(t *testing.T) {
	m := openTicket(t, newStubAPI(), nil, nil)

	m, cmd := step(t, m, feedMsg{event: helpdesk.FeedEvent{Type: helpdesk.EventConnected}})
	assert.Equal(t, "live", m.live)
	assert.NotNil(t, cmd)

	m, _ = step(t, m, feedMsg{event: helpdesk.FeedEvent{Type: helpdesk.EventDisconnected}})
	assert.Equal(t, "reconnecting", m.live)

	m, _ = step(t, m, feedClosedMsg{})
	assert.Equal(t, "offline", m.live)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "", truncate("abc", 1))
}
