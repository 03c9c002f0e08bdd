package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wellness-care-api/internal/model"
	"wellness-care-api/internal/notify"
	"wellness-care-api/internal/repo"
)

func (h *Handler) ListAppointments(c *gin.Context) {
	appts, err := h.appts.List(c.Request.Context(), mobileFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// CreateAppointment books a new appointment. On success the confirmation
// rides the notification queue; on a validation failure nothing is written
// and prior state is untouched.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var draft repo.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	mobile := mobileFrom(c)
	appt, err := h.appts.Create(c.Request.Context(), mobile, draft)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.notices.Push(mobile, notify.KindSuccess, "Appointment booked for "+appt.Date+" at "+appt.Time)
	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

type statusRequest struct {
	Status model.Status `json:"status"`
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
		return
	}

	if err := h.appts.UpdateStatus(c.Request.Context(), mobileFrom(c), id, req.Status); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status.Normalize()})
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

func (h *Handler) RateAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	mobile := mobileFrom(c)
	if err := h.appts.Rate(c.Request.Context(), mobile, id, req.Rating); err != nil {
		h.fail(c, err)
		return
	}
	h.notices.Push(mobile, notify.KindSuccess, "Thanks for rating your center")
	c.Status(http.StatusNoContent)
}

func (h *Handler) Therapies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"therapies": model.Catalog()})
}

func (h *Handler) Slots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": model.Slots()})
}
