package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wellness-care-api/internal/model"
	"wellness-care-api/internal/notify"
	"wellness-care-api/internal/wellness"
)

func (h *Handler) Profile(c *gin.Context) {
	u, _, err := h.store.Get(c.Request.Context(), mobileFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mobile":  u.Mobile,
		"name":    u.Name,
		"profile": u.Profile,
		"medical": u.Medical,
	})
}

type profileRequest struct {
	Name    string        `json:"name"`
	Profile model.Profile `json:"profile"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Name == "" {
		h.fail(c, wellness.Invalid("name", "name required"))
		return
	}

	mobile := mobileFrom(c)
	err := h.mutateRecord(c, mobile, func(u *model.User) error {
		u.Name = req.Name
		u.Profile = req.Profile
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.notices.Push(mobile, notify.KindSuccess, "Profile saved")
	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdateMedicalHistory(c *gin.Context) {
	var req model.MedicalHistory
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	mobile := mobileFrom(c)
	err := h.mutateRecord(c, mobile, func(u *model.User) error {
		u.Medical = req
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.notices.Push(mobile, notify.KindSuccess, "Medical history saved")
	c.Status(http.StatusNoContent)
}

func (h *Handler) Analytics(c *gin.Context) {
	u, _, err := h.store.Get(c.Request.Context(), mobileFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analytics": u.Analytics})
}
