package usecases

import (
	"context"
	"encoding/json"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/hubprotocol/ticketfeed"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// ChangePublisher delivers a change to every API instance.
type ChangePublisher interface {
	Publish(ctx context.Context, change ticketfeed.Change) error
}

// FeedNotifier expands committed rows and publishes them on the change feed.
// Upserts carry the expanded row so subscribers never refetch.
type FeedNotifier struct {
	publisher ChangePublisher
	expander  *TicketExpander
	logger    logger.Interface
}

func NewFeedNotifier(publisher ChangePublisher, expander *TicketExpander, logger logger.Interface) *FeedNotifier {
	return &FeedNotifier{
		publisher: publisher,
		expander:  expander,
		logger:    logger,
	}
}

func (n *FeedNotifier) TicketUpserted(ctx context.Context, t *ticket.Ticket) {
	expanded, err := n.expander.Expand(ctx, t, systemActor, false)
	if err != nil {
		n.logger.Warnw("failed to expand ticket for feed", "ticket_id", t.ID(), "error", err)
		return
	}
	n.publish(ctx, ticketfeed.Change{
		Table:      ticketfeed.TableTickets,
		Op:         ticketfeed.OpUpsert,
		RowID:      t.ID(),
		TicketID:   t.ID(),
		CustomerID: t.CustomerID(),
	}, expanded)
}

func (n *FeedNotifier) TicketDeleted(ctx context.Context, t *ticket.Ticket) {
	n.publish(ctx, ticketfeed.Change{
		Table:      ticketfeed.TableTickets,
		Op:         ticketfeed.OpDelete,
		RowID:      t.ID(),
		TicketID:   t.ID(),
		CustomerID: t.CustomerID(),
	}, nil)
}

func (n *FeedNotifier) MessageUpserted(ctx context.Context, t *ticket.Ticket, m *ticket.Message) {
	expanded, err := n.expander.ExpandMessages(ctx, []*ticket.Message{m})
	if err != nil || len(expanded) == 0 {
		n.logger.Warnw("failed to expand message for feed", "message_id", m.ID(), "error", err)
		return
	}
	n.publish(ctx, ticketfeed.Change{
		Table:      ticketfeed.TableMessages,
		Op:         ticketfeed.OpUpsert,
		RowID:      m.ID(),
		TicketID:   t.ID(),
		CustomerID: t.CustomerID(),
		Internal:   m.IsInternal(),
	}, expanded[0])
}

func (n *FeedNotifier) MessageDeleted(ctx context.Context, t *ticket.Ticket, m *ticket.Message) {
	n.publish(ctx, ticketfeed.Change{
		Table:      ticketfeed.TableMessages,
		Op:         ticketfeed.OpDelete,
		RowID:      m.ID(),
		TicketID:   t.ID(),
		CustomerID: t.CustomerID(),
		Internal:   m.IsInternal(),
	}, nil)
}

func (n *FeedNotifier) publish(ctx context.Context, change ticketfeed.Change, data any) {
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			n.logger.Errorw("failed to encode feed payload", "table", change.Table, "row_id", change.RowID, "error", err)
			return
		}
		change.Data = raw
	}
	change.Timestamp = biztime.NowUTC().UnixMilli()

	if err := n.publisher.Publish(ctx, change); err != nil {
		n.logger.Warnw("failed to publish change",
			"table", change.Table,
			"op", change.Op,
			"row_id", change.RowID,
			"error", err,
		)
	}
}
