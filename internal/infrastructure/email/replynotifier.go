package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/services/markdown"
)

// PreferenceEmailNotifications turns reply emails off when set to false
// in a user's preferences.
const PreferenceEmailNotifications = "email_notifications"

// SendObserver records deliveries. *metrics.Metrics satisfies it.
type SendObserver interface {
	EmailSent(err error)
}

// ReplyNotifier emails a customer when staff answer their ticket.
type ReplyNotifier struct {
	sender   Sender
	renderer markdown.Renderer
	baseURL  string
	observer SendObserver
	logger   logger.Interface
}

func NewReplyNotifier(sender Sender, renderer markdown.Renderer, baseURL string, observer SendObserver, logger logger.Interface) *ReplyNotifier {
	return &ReplyNotifier{
		sender:   sender,
		renderer: renderer,
		baseURL:  strings.TrimRight(baseURL, "/"),
		observer: observer,
		logger:   logger,
	}
}

func (n *ReplyNotifier) NotifyReply(ctx context.Context, t *ticket.Ticket, m *ticket.Message, customer, sender *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if customer == nil || m.IsInternal() {
		return nil
	}
	if enabled, ok := customer.Preferences()[PreferenceEmailNotifications].(bool); ok && !enabled {
		n.logger.Debugw("customer opted out of reply emails", "user_id", customer.ID())
		return nil
	}

	senderName := "Support"
	if sender != nil {
		senderName = sender.DisplayName()
	}
	link := n.baseURL + "/tickets/" + t.ID()
	subject := fmt.Sprintf("Re: %s", t.Title())

	rendered, err := n.renderer.ToHTMLSanitized(m.Content())
	if err != nil {
		rendered = "<p>" + html.EscapeString(m.Content()) + "</p>"
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<p>%s replied to your ticket <strong>%s</strong>:</p>
			<blockquote>%s</blockquote>
			%s
			<p><a href="%s">View the conversation</a></p>
		</body>
		</html>
	`, html.EscapeString(senderName), html.EscapeString(t.Title()), rendered, attachmentNote(len(m.Attachments())), html.EscapeString(link))

	plainBody := fmt.Sprintf(`
%s replied to your ticket "%s":

%s

View the conversation: %s
	`, senderName, t.Title(), m.Content(), link)

	err = n.sender.Send(customer.Email().String(), subject, htmlBody, plainBody)
	if n.observer != nil {
		n.observer.EmailSent(err)
	}
	if err != nil {
		return err
	}

	n.logger.Infow("reply notification sent", "ticket_id", t.ID(), "message_id", m.ID(), "user_id", customer.ID())
	return nil
}

func attachmentNote(count int) string {
	switch count {
	case 0:
		return ""
	case 1:
		return "<p>1 attachment is available on the ticket.</p>"
	}
	return fmt.Sprintf("<p>%d attachments are available on the ticket.</p>", count)
}
