package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/account"
	"github.com/stripe/stripe-go/v72/accountlink"
	"github.com/stripe/stripe-go/v72/transfer"

	"github.com/nurpe/mowops-settlement/internal/config"
	"github.com/nurpe/mowops-settlement/internal/service"
)

// StripeProvider implements service.PaymentAccountProvider on Stripe
// Connect express accounts. Transfers carry the caller's idempotency key,
// so a retried release never moves money twice.
type StripeProvider struct {
	returnURL  string
	refreshURL string
}

func NewStripeProvider(cfg config.StripeConfig) *StripeProvider {
	stripe.Key = cfg.SecretKey
	return &StripeProvider{
		returnURL:  cfg.OnboardingReturn,
		refreshURL: cfg.OnboardingReload,
	}
}

func (p *StripeProvider) CreateAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	params.Context = ctx

	acct, err := account.New(params)
	if err != nil {
		return "", fmt.Errorf("create connected account: %w", err)
	}
	return acct.ID, nil
}

func (p *StripeProvider) AccountStatus(ctx context.Context, accountRef string) (service.AccountStatus, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := account.GetByID(accountRef, params)
	if err != nil {
		return service.AccountStatus{}, fmt.Errorf("fetch connected account: %w", err)
	}
	return service.AccountStatus{
		OnboardingComplete: acct.DetailsSubmitted,
		PayoutsEnabled:     acct.PayoutsEnabled,
	}, nil
}

func (p *StripeProvider) OnboardingLink(ctx context.Context, accountRef string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountRef),
		ReturnURL:  stripe.String(p.returnURL),
		RefreshURL: stripe.String(p.refreshURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := accountlink.New(params)
	if err != nil {
		return "", fmt.Errorf("create onboarding link: %w", err)
	}
	return link.URL, nil
}

func (p *StripeProvider) ReleasePayout(ctx context.Context, req service.PayoutRequest) (string, error) {
	params := &stripe.TransferParams{
		Amount:        stripe.Int64(req.Amount.Shift(2).IntPart()),
		Currency:      stripe.String(req.Currency),
		Destination:   stripe.String(req.AccountRef),
		TransferGroup: stripe.String("booking-" + req.BookingID.String()),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)

	tr, err := transfer.New(params)
	if err != nil {
		return "", fmt.Errorf("create transfer: %w", err)
	}
	return tr.ID, nil
}
