package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wellness-care-api/internal/assistant"
	"wellness-care-api/internal/notify"
)

func (h *Handler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.notices.Active(mobileFrom(c))})
}

// DismissNotification removes a notice ahead of its timer. Dismissing one
// that already expired is fine; expiry is idempotent.
func (h *Handler) DismissNotification(c *gin.Context) {
	h.notices.Expire(c.Param("id"))
	c.Status(http.StatusNoContent)
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat relays a message to the assistant. The conversation is created lazily
// per login session, seeded with the user's current condition; any send
// failure degrades to the fallback line inside the transcript.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
		return
	}

	ctx := c.Request.Context()
	sess, err := h.chatSession(c)
	if err != nil {
		h.log.Warn("assistant session failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"reply": assistant.FallbackReply, "fallback": true})
		return
	}

	reply, err := sess.Send(ctx, req.Message)
	if err != nil {
		h.log.Warn("assistant send failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"reply": assistant.FallbackReply, "fallback": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) chatSession(c *gin.Context) (assistant.Session, error) {
	sessionID := sessionFrom(c)

	h.mu.Lock()
	sess, ok := h.sessions[sessionID]
	h.mu.Unlock()
	if ok {
		return sess, nil
	}

	ctx := c.Request.Context()
	condition := ""
	if u, _, err := h.store.Get(ctx, mobileFrom(c)); err == nil {
		condition = u.Medical.Condition
	}
	sess, err := h.chats.NewSession(ctx, condition)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.sessions[sessionID] = sess
	h.mu.Unlock()
	return sess, nil
}

// SOS fires the emergency flow. Delivery is out of scope; the outcome is
// surfaced like every other one, through the notification queue.
func (h *Handler) SOS(c *gin.Context) {
	mobile := mobileFrom(c)
	h.log.Info("sos triggered", zap.String("mobile", mobile))
	h.notices.Push(mobile, notify.KindSOS, "SOS alert sent to your emergency contact")
	c.JSON(http.StatusOK, gin.H{"sent": true})
}
