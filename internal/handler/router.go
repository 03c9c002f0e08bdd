package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wellness-care-api/internal/middleware"
)

// Routes wires the full HTTP surface. Auth endpoints are rate limited per
// IP; everything else sits behind the bearer-token middleware.
func Routes(h *Handler, secret string, rl *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth", middleware.RateLimit(rl))
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}

	authed := v1.Group("", middleware.Auth(secret))
	{
		authed.POST("/auth/logout", h.Logout)

		authed.GET("/profile", h.Profile)
		authed.PUT("/profile", h.UpdateProfile)
		authed.PUT("/profile/medical-history", h.UpdateMedicalHistory)
		authed.GET("/analytics", h.Analytics)

		authed.GET("/therapies", h.Therapies)
		authed.GET("/slots", h.Slots)

		authed.GET("/appointments", h.ListAppointments)
		authed.POST("/appointments", h.CreateAppointment)
		authed.POST("/appointments/:id/status", h.UpdateAppointmentStatus)
		authed.POST("/appointments/:id/rating", h.RateAppointment)

		authed.GET("/reminder", h.Reminder)
		authed.POST("/reminder/resolve", h.ResolveReminder)

		authed.GET("/notifications", h.Notifications)
		authed.DELETE("/notifications/:id", h.DismissNotification)

		authed.POST("/chat", h.Chat)
		authed.POST("/sos", h.SOS)
	}

	return r
}
