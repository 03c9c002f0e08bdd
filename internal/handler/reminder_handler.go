package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wellness-care-api/internal/model"
	"wellness-care-api/internal/notify"
	"wellness-care-api/internal/reminder"
)

// Reminder returns the session's pending reminder, if any. Selection is pure
// given the session markers, so re-running it returns the same appointment
// until the user resolves it. Note this is looser than the login scan: an
// appointment booked mid-session can surface here before the next login.
// The session markers still keep any single reminder from appearing twice.
func (h *Handler) Reminder(c *gin.Context) {
	ctx := c.Request.Context()
	appts, err := h.appts.List(ctx, mobileFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	rem, err := h.reminders.Select(ctx, sessionFrom(c), appts, time.Now())
	if err != nil {
		h.fail(c, err)
		return
	}
	if rem == nil {
		c.JSON(http.StatusOK, gin.H{"reminder": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminder": rem})
}

type resolveRequest struct {
	AppointmentID int64           `json:"appointmentId"`
	Action        reminder.Action `json:"action"`
}

// ResolveReminder handles confirm/reschedule/dismiss. The scheduler marks
// the appointment before acting, so a failed confirm still keeps it from
// surfacing again this session.
func (h *Handler) ResolveReminder(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AppointmentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "appointmentId and action required"})
		return
	}

	mobile := mobileFrom(c)
	err := h.reminders.Resolve(c.Request.Context(), sessionFrom(c), req.AppointmentID, req.Action,
		func(ctx context.Context) error {
			return h.appts.UpdateStatus(ctx, mobile, req.AppointmentID, model.StatusConfirmed)
		})
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.Action == reminder.ActionConfirm {
		h.notices.Push(mobile, notify.KindSuccess, "Appointment confirmed")
	}
	c.JSON(http.StatusOK, gin.H{"resolved": req.Action})
}
