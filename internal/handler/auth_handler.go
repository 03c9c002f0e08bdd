package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wellness-care-api/internal/auth"
	"wellness-care-api/internal/model"
)

type registerRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Mobile == "" || req.Password == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields required"})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password too short"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	now := time.Now()
	u := &model.User{
		Mobile:       req.Mobile,
		PasswordHash: hash,
		Name:         req.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// version 0 = insert; a taken mobile number comes back as ErrUserExists
	if err := h.store.Put(c.Request.Context(), req.Mobile, u, 0); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mobile": u.Mobile, "name": u.Name})
}

type loginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// Login authenticates, mints the session and runs the once-per-session
// reminder scan; the selected reminder (if any) rides along in the response.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Mobile == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mobile and password required"})
		return
	}

	ctx := c.Request.Context()
	u, _, err := h.store.Get(ctx, req.Mobile)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	sessionID := uuid.New().String()
	tok, err := auth.MakeToken(u.Mobile, sessionID, h.secret)
	if err != nil {
		h.fail(c, err)
		return
	}
	rawRefresh, refreshHash, err := auth.GenerateRefreshToken()
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, err := h.store.CreateRefreshToken(ctx, u.Mobile, sessionID, refreshHash, time.Now().Add(auth.RefreshTokenTTL)); err != nil {
		h.fail(c, err)
		return
	}

	rem, err := h.reminders.Select(ctx, sessionID, u.Appointments, time.Now())
	if err != nil {
		// a broken session store shouldn't block login
		h.log.Warn("reminder scan failed", zap.Error(err), zap.String("mobile", u.Mobile))
		rem = nil
	}

	resp := gin.H{
		"token":        tok,
		"refreshToken": rawRefresh,
		"user":         gin.H{"mobile": u.Mobile, "name": u.Name},
	}
	if rem != nil {
		resp["reminder"] = rem
	}
	c.JSON(http.StatusOK, resp)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh rotates the refresh token and mints a fresh access token for the
// same login session. A revoked or expired token fails closed.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken required"})
		return
	}

	ctx := c.Request.Context()
	rt, err := h.store.GetRefreshTokenByHash(ctx, auth.HashRefreshToken(req.RefreshToken))
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	newRaw, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		h.fail(c, err)
		return
	}
	newID := uuid.New().String()
	if err := h.store.RotateRefreshToken(ctx, rt.ID, newID, rt.Mobile, rt.SessionID, newHash, time.Now().Add(auth.RefreshTokenTTL)); err != nil {
		h.fail(c, err)
		return
	}

	tok, err := auth.MakeToken(rt.Mobile, rt.SessionID, h.secret)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok, "refreshToken": newRaw})
}

// Logout revokes every refresh token and drops the session's reminder
// markers and chat session.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	mobile := mobileFrom(c)
	sessionID := sessionFrom(c)

	if err := h.store.RevokeAllRefreshTokens(ctx, mobile); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.reminders.EndSession(ctx, sessionID); err != nil {
		h.log.Warn("ending reminder session failed", zap.Error(err))
	}

	h.mu.Lock()
	delete(h.sessions, sessionID)
	h.mu.Unlock()

	c.Status(http.StatusNoContent)
}
