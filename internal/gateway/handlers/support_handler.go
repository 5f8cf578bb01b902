package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/gateway/middleware"
	"inventory-system/internal/notify"
	"inventory-system/internal/services/support"
)

const streamHeartbeat = 25 * time.Second

type subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

type SupportHTTPHandler struct {
	support *support.Service
	events  subscriber
}

// NewSupportHTTPHandler wires the support endpoints. events may be nil, in
// which case the live stream answers 503.
func NewSupportHTTPHandler(supportService *support.Service, events subscriber) *SupportHTTPHandler {
	return &SupportHTTPHandler{
		support: supportService,
		events:  events,
	}
}

type SupportMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type SupportResponseRequest struct {
	MessageID uuid.UUID `json:"messageId"`
	Response  string    `json:"response" binding:"required"`
}

func (h *SupportHTTPHandler) Submit(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid token"))
		return
	}

	var req SupportMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.support.Submit(ctx, userID, req.Message)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Support message sent successfully", resp))
}

// History returns the caller's own messages.
func (h *SupportHTTPHandler) History(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid token"))
		return
	}
	h.history(c, userID)
}

// UserHistory returns the messages of any user, for admins.
func (h *SupportHTTPHandler) UserHistory(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}
	h.history(c, userID)
}

func (h *SupportHTTPHandler) history(c *gin.Context, userID uuid.UUID) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.support.History(ctx, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Support history retrieved successfully", resp, countMeta(len(resp))))
}

func (h *SupportHTTPHandler) Pending(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.support.Pending(ctx)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Pending support messages retrieved successfully", resp, countMeta(len(resp))))
}

func (h *SupportHTTPHandler) Respond(c *gin.Context) {
	adminID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid token"))
		return
	}

	var req SupportResponseRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.support.Respond(ctx, req.MessageID, req.Response, adminID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Response sent successfully", resp))
}

// Stream pushes support notifications to the caller as server-sent events.
// Admins receive new tickets, every user receives replies addressed to them.
func (h *SupportHTTPHandler) Stream(c *gin.Context) {
	if h.events == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("Live notifications are not available"))
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid token"))
		return
	}
	role := middleware.CurrentRole(c)

	ctx := c.Request.Context()
	sub := h.events.Subscribe(ctx, notify.UserChannel(userID), notify.RoleChannel(role))
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		zap.L().Error("failed to subscribe to support events", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, errorResponse("Live notifications are not available"))
		return
	}

	messages := sub.Channel()
	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			c.SSEvent(eventName(msg.Channel), msg.Payload)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}

func eventName(channel string) string {
	if channel == notify.AdminChannel {
		return "support.alert"
	}
	return "support.reply"
}
