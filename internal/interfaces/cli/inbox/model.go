package inbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/customerly-inc/customerly/sdk/helpdesk"
)

// focusRegion says which pane receives keyboard input.
type focusRegion int

const (
	focusList focusRegion = iota
	focusThread
	focusCompose
)

type (
	ticketsMsg struct {
		page *helpdesk.TicketPage
		err  error
	}
	ticketMsg struct {
		ticket *helpdesk.Ticket
		err    error
	}
	sentMsg struct {
		msg *helpdesk.Message
		err error
	}
	feedMsg struct {
		event helpdesk.FeedEvent
	}
	feedClosedMsg struct{}
)

// filterSetter is satisfied by *helpdesk.Feed.
type filterSetter interface {
	SetFilters(filters ...helpdesk.Filter) error
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedBorder = lipgloss.Color("63")

	priorityStyles = map[string]lipgloss.Style{
		"urgent": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

// Model is the bubbletea model of the terminal inbox. All state lives in
// the helpdesk.Inbox; network calls run in commands and hand their results
// back through messages so the inbox is only touched from Update.
type Model struct {
	ctx   context.Context
	api   helpdesk.API
	inbox *helpdesk.Inbox
	feed  filterSetter
	// events is nil when running without a live feed.
	events <-chan helpdesk.FeedEvent
	me     *helpdesk.User

	cursor  int
	focus   focusRegion
	input   textinput.Model
	thread  viewport.Model
	sending bool
	live    string

	width  int
	height int
}

// NewModel wires the view to an inbox. feed and events may be nil.
func NewModel(ctx context.Context, api helpdesk.API, inbox *helpdesk.Inbox, me *helpdesk.User, feed filterSetter, events <-chan helpdesk.FeedEvent) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 4000

	return Model{
		ctx:    ctx,
		api:    api,
		inbox:  inbox,
		feed:   feed,
		events: events,
		me:     me,
		input:  input,
		thread: viewport.New(0, 0),
		live:   "connecting",
		width:  100,
		height: 30,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchTickets(), listenForFeedEvent(m.events))
}

// listenForFeedEvent blocks until the feed delivers an event.
func listenForFeedEvent(events <-chan helpdesk.FeedEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return feedClosedMsg{}
		}
		return feedMsg{event: ev}
	}
}

func (m Model) fetchTickets() tea.Cmd {
	api, ctx := m.api, m.ctx
	params := helpdesk.ListTicketsParams{}
	return func() tea.Msg {
		page, err := api.ListTickets(ctx, params)
		return ticketsMsg{page: page, err: err}
	}
}

func (m Model) fetchTicket(id string) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		t, err := api.GetTicket(ctx, id)
		return ticketMsg{ticket: t, err: err}
	}
}

func (m Model) subscribe() tea.Cmd {
	if m.feed == nil {
		return nil
	}
	feed, filters := m.feed, m.inbox.Filters()
	return func() tea.Msg {
		// Not connected yet is fine: the feed resends on connect.
		_ = feed.SetFilters(filters...)
		return nil
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ticketsMsg:
		_ = m.inbox.ShowTickets(msg.page, msg.err)
		m.clampCursor()
		return m, nil

	case ticketMsg:
		if err := m.inbox.ShowTicket(msg.ticket, msg.err); err != nil {
			return m, nil
		}
		m.syncComposer()
		m.refreshThread(true)
		return m, m.subscribe()

	case sentMsg:
		m.sending = false
		if err := m.inbox.ShowSendResult(msg.msg, msg.err); err == nil {
			m.input.Reset()
		}
		m.refreshThread(true)
		return m, nil

	case feedMsg:
		cmd := m.handleFeedEvent(msg.event)
		return m, tea.Batch(cmd, listenForFeedEvent(m.events))

	case feedClosedMsg:
		m.live = "offline"
		return m, nil
	}

	if m.focus == focusCompose {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleFeedEvent(ev helpdesk.FeedEvent) tea.Cmd {
	switch ev.Type {
	case helpdesk.EventConnected:
		m.live = "live"
		// Changes made while disconnected are not replayed.
		cmds := []tea.Cmd{m.fetchTickets()}
		if sel := m.inbox.Selected(); sel != nil {
			cmds = append(cmds, m.fetchTicket(sel.ID))
		}
		return tea.Batch(cmds...)
	case helpdesk.EventDisconnected:
		m.live = "reconnecting"
	case helpdesk.EventRejected:
		m.live = "subscription rejected"
	case helpdesk.EventChange:
		hadSelection := m.inbox.Selected() != nil
		_ = m.inbox.Apply(ev.Change)
		m.clampCursor()
		if ev.Change.Table == helpdesk.TableMessages {
			m.refreshThread(false)
		}
		if m.inbox.Selected() == nil && m.focus != focusList {
			m.focus = focusList
			m.input.Blur()
		}
		if hadSelection && m.inbox.Selected() == nil {
			// Drop the closed thread's filter.
			return m.subscribe()
		}
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.focus {
	case focusList:
		return m.handleListKey(msg)
	case focusThread:
		return m.handleThreadKey(msg)
	default:
		return m.handleComposeKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tickets := m.inbox.Tickets()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tickets)-1 {
			m.cursor++
		}
	case "r":
		return m, m.fetchTickets()
	case "enter":
		if len(tickets) == 0 {
			return m, nil
		}
		m.focus = focusThread
		return m, m.fetchTicket(tickets[m.cursor].ID)
	}
	return m, nil
}

func (m Model) handleThreadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		if m.sending {
			return m, nil
		}
		m.inbox.Deselect()
		m.focus = focusList
		return m, m.subscribe()
	case "i", "r":
		if m.inbox.Composer() != nil {
			m.focus = focusCompose
			return m, m.input.Focus()
		}
	case "tab":
		m.toggleMode()
	case "up", "k":
		m.thread.LineUp(1)
	case "down", "j":
		m.thread.LineDown(1)
	case "pgup":
		m.thread.LineUp(m.thread.Height / 2)
	case "pgdown":
		m.thread.LineDown(m.thread.Height / 2)
	}
	return m, nil
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	composer := m.inbox.Composer()
	if composer == nil {
		m.focus = focusList
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.focus = focusThread
		m.input.Blur()
		return m, nil
	case tea.KeyTab:
		m.toggleMode()
		return m, nil
	case tea.KeyEnter:
		return m.submit(composer)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles the composer commands "/attach <path>" and
// "/detach <name>"; anything else is sent.
func (m Model) submit(composer *helpdesk.Composer) (tea.Model, tea.Cmd) {
	value := m.input.Value()
	switch {
	case strings.HasPrefix(value, "/attach "):
		composer.Stage(helpdesk.StagePath(strings.TrimSpace(strings.TrimPrefix(value, "/attach "))))
		m.input.Reset()
		return m, nil
	case strings.HasPrefix(value, "/detach "):
		composer.Unstage(strings.TrimSpace(strings.TrimPrefix(value, "/detach ")))
		m.input.Reset()
		return m, nil
	}

	composer.SetDraft(value)
	m.sending = true
	ctx := m.ctx
	return m, func() tea.Msg {
		msg, err := composer.Submit(ctx)
		return sentMsg{msg: msg, err: err}
	}
}

func (m *Model) toggleMode() {
	composer := m.inbox.Composer()
	if composer == nil || m.sending {
		return
	}
	// customers cannot write internal notes
	if m.me != nil && m.me.Role == "customer" {
		return
	}
	composer.Toggle()
	m.syncComposer()
}

func (m *Model) syncComposer() {
	if composer := m.inbox.Composer(); composer != nil {
		m.input.Placeholder = composer.Placeholder()
	}
}

func (m *Model) clampCursor() {
	n := len(m.inbox.Tickets())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) layout() {
	listWidth := m.width * 2 / 5
	m.thread.Width = m.width - listWidth - 6
	m.thread.Height = m.height - 10
	if m.thread.Height < 3 {
		m.thread.Height = 3
	}
	m.input.Width = m.thread.Width - 4
	m.refreshThread(false)
}

func (m *Model) refreshThread(bottom bool) {
	atBottom := m.thread.AtBottom()
	m.thread.SetContent(m.renderThread())
	if bottom || atBottom {
		m.thread.GotoBottom()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	listWidth := m.width * 2 / 5

	left := m.pane(m.renderList(listWidth-4), listWidth, m.focus == focusList)
	right := m.pane(m.renderDetail(), m.width-listWidth, m.focus != focusList)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) pane(content string, width int, focused bool) string {
	style := paneStyle.Width(width - 2).Height(m.height - 4)
	if focused {
		style = style.BorderForeground(focusedBorder)
	}
	return style.Render(content)
}

func (m Model) renderHeader() string {
	who := ""
	if m.me != nil {
		who = fmt.Sprintf("%s (%s)", m.me.Name, m.me.Role)
	}
	return titleStyle.Render("Customerly inbox") + "  " + mutedStyle.Render(who+"  feed: "+m.live)
}

func (m Model) renderFooter() string {
	if text := m.inbox.Err(); text != "" {
		return errorStyle.Render(text)
	}
	switch m.focus {
	case focusList:
		return mutedStyle.Render("↑/↓ move  enter open  r refresh  q quit")
	case focusThread:
		return mutedStyle.Render("i compose  tab reply/note  ↑/↓ scroll  esc back")
	default:
		return mutedStyle.Render("enter send  tab reply/note  /attach <path>  /detach <name>  esc back")
	}
}

func (m Model) renderList(width int) string {
	tickets := m.inbox.Tickets()
	if len(tickets) == 0 {
		return mutedStyle.Render("No tickets")
	}

	var b strings.Builder
	for i, t := range tickets {
		line := fmt.Sprintf("%-8s %s", t.Status, truncate(t.Title, width-12))
		if t.IsOverdue {
			line = overdueStyle.Render("!") + " " + line
		} else {
			line = "  " + line
		}
		if style, ok := priorityStyles[t.Priority]; ok && i != m.cursor {
			line = style.Render(line)
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderDetail() string {
	sel := m.inbox.Selected()
	if sel == nil {
		return mutedStyle.Render("Select a ticket")
	}

	header := titleStyle.Render(sel.Title) + "\n" +
		mutedStyle.Render(fmt.Sprintf("%s · %s · opened %s", sel.StatusLabel, sel.PriorityLabel, humanize.Time(sel.CreatedAt)))

	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.thread.View(), "", m.renderComposer())
}

func (m Model) renderThread() string {
	msgs := m.inbox.Thread()
	if len(msgs) == 0 {
		return mutedStyle.Render("No messages yet")
	}

	var b strings.Builder
	for _, msg := range msgs {
		sender := msg.SenderID
		if msg.Sender != nil && msg.Sender.Name != "" {
			sender = msg.Sender.Name
		}
		head := fmt.Sprintf("%s · %s", sender, humanize.Time(msg.CreatedAt))
		if msg.IsInternal {
			head = noteStyle.Render("[note] " + head)
		} else {
			head = titleStyle.Render(head)
		}
		b.WriteString(head)
		b.WriteByte('\n')
		if msg.Content != "" {
			b.WriteString(msg.Content)
			b.WriteByte('\n')
		}
		for _, p := range msg.Attachments {
			b.WriteString(mutedStyle.Render("📎 " + p))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderComposer() string {
	if m.sending {
		return mutedStyle.Render("Sending...")
	}
	composer := m.inbox.Composer()
	if composer == nil {
		return ""
	}

	label := composer.SubmitLabel()
	if composer.IsInternal() {
		label = noteStyle.Render(label)
	}
	out := label + "\n" + m.input.View()
	if staged := composer.Staged(); len(staged) > 0 {
		out += "\n" + mutedStyle.Render("attached: "+strings.Join(staged, ", "))
	}
	return out
}

func truncate(s string, n int) string {
	if n <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

