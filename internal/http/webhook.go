package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"
)

const webhookBodyLimit = 1 << 16

// paymentAccountWebhook ingests provider account events. The signature check
// is the only authentication on this route.
func (h *Handler) paymentAccountWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookBodyLimit))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		h.log.Warn().Err(err).Msg("webhook signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if event.Type != "account.updated" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var acct stripe.Account
	if err := json.Unmarshal(event.Data.Raw, &acct); err != nil {
		h.log.Warn().Err(err).Msg("webhook payload unmarshal failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	err = h.accounts.HandleAccountUpdated(c.Request.Context(), acct.ID, acct.DetailsSubmitted, acct.PayoutsEnabled)
	if err != nil {
		h.log.Error().Err(err).Str("account_ref", acct.ID).Msg("account webhook apply failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
