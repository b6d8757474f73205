package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/mowops-settlement/internal/http/middleware"
	"github.com/nurpe/mowops-settlement/internal/model"
	"github.com/nurpe/mowops-settlement/internal/service"
)

type Handler struct {
	quotes        *service.QuoteService
	bookings      *service.BookingService
	tiers         *service.TierService
	accounts      *service.AccountService
	webhookSecret string
	log           zerolog.Logger
}

func NewHandler(
	quotes *service.QuoteService,
	bookings *service.BookingService,
	tiers *service.TierService,
	accounts *service.AccountService,
	webhookSecret string,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		quotes:        quotes,
		bookings:      bookings,
		tiers:         tiers,
		accounts:      accounts,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/webhooks/payment-account", h.paymentAccountWebhook)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/quotes", h.quote)
	protected.POST("/bookings/:id/approve", h.approveBooking)
	protected.POST("/bookings/:id/start", h.startBooking)
	protected.POST("/bookings/:id/finish", h.finishBooking)
	protected.POST("/bookings/:id/cancel", h.cancelBooking)
	protected.GET("/bookings/:id/receipt", h.bookingReceipt)
	protected.POST("/contractors/payment-account", h.createPaymentAccount)
	protected.GET("/contractors/payment-account", h.paymentAccountStatus)

	internal := router.Group("/internal")
	internal.Use(authMiddleware, middleware.RequireAdmin())
	internal.POST("/tier-promotions/run", h.runTierPromotions)
	internal.GET("/tier-promotions/export", h.exportTierPromotions)
}

type quoteRequest struct {
	AddressID        string `json:"address_id" binding:"required"`
	ScheduledDate    string `json:"scheduled_date" binding:"required"`
	GrassLength      string `json:"grass_length" binding:"required"`
	ClippingsRemoval bool   `json:"clippings_removal"`
}

func (h *Handler) quote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addressID, err := uuid.Parse(strings.TrimSpace(req.AddressID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address_id"})
		return
	}

	scheduledDate, err := parseDate(req.ScheduledDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_date"})
		return
	}

	result, err := h.quotes.Quote(c.Request.Context(), service.QuoteInput{
		AddressID:        addressID,
		ScheduledDate:    scheduledDate,
		GrassLength:      model.GrassLength(strings.ToLower(strings.TrimSpace(req.GrassLength))),
		ClippingsRemoval: req.ClippingsRemoval,
		Principal:        principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quote":          result.Breakdown,
		"is_preliminary": result.IsPreliminary,
	})
}

type approveRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *Handler) approveBooking(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	bookingID, err := parseBookingID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req approveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	err = h.bookings.Approve(c.Request.Context(), service.ApproveInput{
		BookingID: bookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) startBooking(c *gin.Context) {
	h.transition(c, h.bookings.Start)
}

func (h *Handler) finishBooking(c *gin.Context) {
	h.transition(c, h.bookings.Finish)
}

func (h *Handler) cancelBooking(c *gin.Context) {
	h.transition(c, h.bookings.Cancel)
}

func (h *Handler) transition(c *gin.Context, apply func(ctx context.Context, input service.TransitionInput) error) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	bookingID, err := parseBookingID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	err = apply(c.Request.Context(), service.TransitionInput{
		BookingID: bookingID,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) bookingReceipt(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	bookingID, err := parseBookingID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	result, err := h.bookings.Receipt(c.Request.Context(), bookingID, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) createPaymentAccount(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	if !principal.IsContractor() {
		c.JSON(http.StatusForbidden, gin.H{"error": "contractor role required"})
		return
	}

	result, err := h.accounts.EnsureAccount(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_ref":    result.AccountRef,
		"onboarding_url": result.OnboardingURL,
	})
}

func (h *Handler) paymentAccountStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	if !principal.IsContractor() {
		c.JSON(http.StatusForbidden, gin.H{"error": "contractor role required"})
		return
	}

	result, err := h.accounts.Status(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"has_account":         result.HasAccount,
		"onboarding_complete": result.OnboardingComplete,
		"payouts_enabled":     result.PayoutsEnabled,
	})
}

func (h *Handler) runTierPromotions(c *gin.Context) {
	promotions, err := h.tiers.Run(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"promotions": promotions})
}

func (h *Handler) exportTierPromotions(c *gin.Context) {
	result, err := h.tiers.Export(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyReviewed), errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrExternalService):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseBookingID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Param("id")))
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
