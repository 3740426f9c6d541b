// Package realtime serves the ticket change feed over websocket.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/customerly-inc/customerly/internal/infrastructure/services"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/hubprotocol/ticketfeed"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/utils"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = 30 * time.Second
	maxMessageSize   = 16 << 10
	subscribeTimeout = 5 * time.Second
)

// FeedHub is the part of the ticket hub the handler drives.
type FeedHub interface {
	Register(actor authorization.Actor) (*services.FeedConn, error)
	Unregister(conn *services.FeedConn)
	Subscribe(ctx context.Context, conn *services.FeedConn, filters []ticketfeed.Filter) error
}

// HandshakeLimiter throttles upgrade attempts per client IP.
type HandshakeLimiter interface {
	Allow(ip string) bool
}

type FeedHandler struct {
	hub      FeedHub
	limiter  HandshakeLimiter
	upgrader websocket.Upgrader
	logger   logger.Interface
}

// NewFeedHandler accepts browser upgrades only from allowedOrigins; a "*"
// entry allows any. Requests without an Origin header (CLI, SDK) are
// always accepted since they carry a bearer token anyway.
func NewFeedHandler(hub FeedHub, limiter HandshakeLimiter, allowedOrigins []string, log logger.Interface) *FeedHandler {
	return &FeedHandler{
		hub:     hub,
		limiter: limiter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Feed handles GET /realtime
func (h *FeedHandler) Feed(c *gin.Context) {
	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		utils.ErrorResponseWithError(c, errors.NewRateLimitedError("too many connection attempts"))
		return
	}
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	conn, err := h.hub.Register(actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warnw("failed to upgrade to websocket",
			"error", err,
			"user_id", actor.UserID,
			"ip", c.ClientIP(),
		)
		h.hub.Unregister(conn)
		return
	}

	h.logger.Infow("realtime websocket connected",
		"conn_id", conn.ID,
		"user_id", actor.UserID,
		"role", actor.Role,
		"ip", c.ClientIP(),
	)

	go h.writePump(conn, ws)
	h.readPump(c.Request.Context(), conn, ws)
}

// readPump owns the connection's lifetime: when it returns the hub forgets
// the connection, which closes Send and stops the write pump.
func (h *FeedHandler) readPump(ctx context.Context, conn *services.FeedConn, ws *websocket.Conn) {
	defer func() {
		h.hub.Unregister(conn)
		ws.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warnw("realtime websocket read error", "error", err, "conn_id", conn.ID)
			}
			return
		}

		var frame ticketfeed.Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			h.reply(conn, errorFrame("malformed frame"))
			continue
		}

		switch frame.Type {
		case ticketfeed.MsgTypeSubscribe:
			h.subscribe(ctx, conn, frame.Filters)
		default:
			h.reply(conn, errorFrame("unsupported frame type: "+frame.Type))
		}
	}
}

func (h *FeedHandler) subscribe(ctx context.Context, conn *services.FeedConn, filters []ticketfeed.Filter) {
	ctx, cancel := context.WithTimeout(ctx, subscribeTimeout)
	defer cancel()

	if err := h.hub.Subscribe(ctx, conn, filters); err != nil {
		msg := "subscription rejected"
		if appErr := errors.GetAppError(err); appErr != nil {
			msg = appErr.Message
		}
		h.reply(conn, errorFrame(msg))
		return
	}
	h.reply(conn, ticketfeed.Frame{
		Type:      ticketfeed.MsgTypeSubscribed,
		Filters:   filters,
		Timestamp: biztime.NowUTC().UnixMilli(),
	})
}

// reply queues a control frame without blocking the read loop. A full
// buffer means the hub is about to drop this connection anyway.
func (h *FeedHandler) reply(conn *services.FeedConn, frame ticketfeed.Frame) {
	select {
	case conn.Send <- frame:
	default:
		h.logger.Debugw("dropped realtime control frame", "conn_id", conn.ID, "type", frame.Type)
	}
}

func (h *FeedHandler) writePump(conn *services.FeedConn, ws *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case frame, ok := <-conn.Send:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := ws.WriteJSON(frame); err != nil {
				h.logger.Debugw("failed to write realtime frame", "error", err, "conn_id", conn.ID)
				return
			}

		case <-conn.Done():
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "resync required"))
			return

		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func errorFrame(msg string) ticketfeed.Frame {
	return ticketfeed.Frame{
		Type:      ticketfeed.MsgTypeError,
		Error:     msg,
		Timestamp: biztime.NowUTC().UnixMilli(),
	}
}
