// Package handler is the HTTP surface of the service. Handlers validate
// input, call into the repositories and funnel every user-visible outcome
// through the notification queue.
package handler

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wellness-care-api/internal/assistant"
	"wellness-care-api/internal/middleware"
	"wellness-care-api/internal/model"
	"wellness-care-api/internal/notify"
	"wellness-care-api/internal/reminder"
	"wellness-care-api/internal/repo"
	"wellness-care-api/internal/store"
	"wellness-care-api/internal/wellness"
)

type Handler struct {
	store     store.Store
	appts     *repo.Appointments
	reminders *reminder.Scheduler
	notices   *notify.Queue
	chats     assistant.Factory
	log       *zap.Logger
	secret    string

	mu       sync.Mutex
	sessions map[string]assistant.Session // chat session per login session
}

func New(st store.Store, appts *repo.Appointments, rem *reminder.Scheduler, notices *notify.Queue, chats assistant.Factory, log *zap.Logger, secret string) *Handler {
	return &Handler{
		store:     st,
		appts:     appts,
		reminders: rem,
		notices:   notices,
		chats:     chats,
		log:       log,
		secret:    secret,
		sessions:  make(map[string]assistant.Session),
	}
}

func mobileFrom(c *gin.Context) string {
	return c.GetString(middleware.CtxMobile)
}

func sessionFrom(c *gin.Context) string {
	return c.GetString(middleware.CtxSessionID)
}

// mutateRecord is the handler-side read-modify-write helper for profile and
// medical-history saves, sharing the conflict-retry policy with the
// appointment repository.
func (h *Handler) mutateRecord(c *gin.Context, mobile string, fn func(u *model.User) error) error {
	return store.Mutate(c.Request.Context(), h.store, mobile, time.Now, fn)
}

// fail maps the error taxonomy onto HTTP statuses. Validation failures carry
// the field so the UI can attach the message to it.
func (h *Handler) fail(c *gin.Context, err error) {
	var ve *wellness.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg, "field": ve.Field})
	case errors.Is(err, wellness.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, wellness.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "registration failed"})
	case errors.Is(err, wellness.ErrIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "illegal status transition"})
	default:
		h.log.Error("internal error", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
