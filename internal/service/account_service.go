package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/mowops-settlement/internal/model"
)

// AccountService provisions and inspects contractor payment accounts. It is
// the contractor-facing side of the payment provider; the payout path never
// provisions accounts on its own.
type AccountService struct {
	contractors ContractorStore
	provider    PaymentAccountProvider
	log         zerolog.Logger
}

type OnboardingResult struct {
	AccountRef    string
	OnboardingURL string
}

type AccountStatusResult struct {
	HasAccount         bool
	OnboardingComplete bool
	PayoutsEnabled     bool
}

func NewAccountService(contractors ContractorStore, provider PaymentAccountProvider, log zerolog.Logger) *AccountService {
	return &AccountService{contractors: contractors, provider: provider, log: log}
}

// EnsureAccount creates the connected account on first call and returns a
// fresh onboarding link either way.
func (s *AccountService) EnsureAccount(ctx context.Context, principal model.Principal) (*OnboardingResult, error) {
	contractor, err := s.getContractor(ctx, principal)
	if err != nil {
		return nil, err
	}

	accountRef := ""
	if contractor.PaymentAccountRef != nil {
		accountRef = *contractor.PaymentAccountRef
	}

	if accountRef == "" {
		accountRef, err = s.provider.CreateAccount(ctx, contractor.Email)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
		}
		if err := s.contractors.SetPaymentAccount(ctx, contractor.ID, accountRef); err != nil {
			return nil, err
		}
		s.log.Info().
			Str("contractor_id", contractor.ID.String()).
			Str("account_ref", accountRef).
			Msg("payment account created")
	}

	link, err := s.provider.OnboardingLink(ctx, accountRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	return &OnboardingResult{AccountRef: accountRef, OnboardingURL: link}, nil
}

// Status fetches the provider's view of the account and mirrors the flags
// onto the contractor row.
func (s *AccountService) Status(ctx context.Context, principal model.Principal) (*AccountStatusResult, error) {
	contractor, err := s.getContractor(ctx, principal)
	if err != nil {
		return nil, err
	}
	if contractor.PaymentAccountRef == nil {
		return &AccountStatusResult{}, nil
	}

	status, err := s.provider.AccountStatus(ctx, *contractor.PaymentAccountRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	err = s.contractors.UpdateAccountFlags(ctx, *contractor.PaymentAccountRef,
		status.OnboardingComplete, status.PayoutsEnabled)
	if err != nil {
		return nil, err
	}

	return &AccountStatusResult{
		HasAccount:         true,
		OnboardingComplete: status.OnboardingComplete,
		PayoutsEnabled:     status.PayoutsEnabled,
	}, nil
}

// HandleAccountUpdated applies a provider account webhook to the matching
// contractor. Unknown accounts are ignored.
func (s *AccountService) HandleAccountUpdated(ctx context.Context, accountRef string, onboardingComplete, payoutsEnabled bool) error {
	if _, err := s.contractors.GetContractorByAccountRef(ctx, accountRef); err != nil {
		if err == gorm.ErrRecordNotFound {
			s.log.Debug().Str("account_ref", accountRef).Msg("account webhook for unknown contractor")
			return nil
		}
		return err
	}
	return s.contractors.UpdateAccountFlags(ctx, accountRef, onboardingComplete, payoutsEnabled)
}

func (s *AccountService) getContractor(ctx context.Context, principal model.Principal) (*model.Contractor, error) {
	contractor, err := s.contractors.GetContractorByUserID(ctx, principal.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contractor, nil
}
