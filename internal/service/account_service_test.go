package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/mowops-settlement/internal/model"
)

func accountFixtures() (*fakeContractorStore, *fakeProvider, *AccountService, *model.Contractor, model.Principal) {
	contractor := &model.Contractor{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Tier:           model.TierProbation,
		IsActive:       true,
		ApprovalStatus: model.ApprovalApproved,
		Email:          "pro@example.com",
	}
	store := newFakeContractorStore(contractor)
	provider := newFakeProvider()
	svc := NewAccountService(store, provider, zerolog.Nop())
	principal := model.Principal{UserID: contractor.UserID, Role: model.RoleContractor}
	return store, provider, svc, contractor, principal
}

func TestEnsureAccountCreatesOnce(t *testing.T) {
	store, provider, svc, contractor, principal := accountFixtures()

	first, err := svc.EnsureAccount(context.Background(), principal)
	require.NoError(t, err)
	assert.NotEmpty(t, first.AccountRef)
	assert.NotEmpty(t, first.OnboardingURL)
	require.NotNil(t, store.contractors[contractor.ID].PaymentAccountRef)

	second, err := svc.EnsureAccount(context.Background(), principal)
	require.NoError(t, err)
	assert.Equal(t, first.AccountRef, second.AccountRef)
	assert.Len(t, provider.createdAccounts, 1, "the connected account is created once")
}

func TestStatusWithoutAccount(t *testing.T) {
	_, _, svc, _, principal := accountFixtures()

	status, err := svc.Status(context.Background(), principal)
	require.NoError(t, err)
	assert.False(t, status.HasAccount)
}

func TestStatusMirrorsProviderFlags(t *testing.T) {
	store, provider, svc, contractor, principal := accountFixtures()
	provider.accountStatus = AccountStatus{OnboardingComplete: true, PayoutsEnabled: true}

	_, err := svc.EnsureAccount(context.Background(), principal)
	require.NoError(t, err)

	status, err := svc.Status(context.Background(), principal)
	require.NoError(t, err)
	assert.True(t, status.HasAccount)
	assert.True(t, status.PayoutsEnabled)
	assert.True(t, store.contractors[contractor.ID].PayoutsEnabled)
}

func TestHandleAccountUpdated(t *testing.T) {
	store, _, svc, contractor, principal := accountFixtures()

	result, err := svc.EnsureAccount(context.Background(), principal)
	require.NoError(t, err)

	err = svc.HandleAccountUpdated(context.Background(), result.AccountRef, true, true)
	require.NoError(t, err)
	assert.True(t, store.contractors[contractor.ID].OnboardingComplete)
	assert.True(t, store.contractors[contractor.ID].PayoutsEnabled)
}

func TestHandleAccountUpdatedUnknownAccount(t *testing.T) {
	_, _, svc, _, _ := accountFixtures()

	err := svc.HandleAccountUpdated(context.Background(), "acct_unknown", true, true)
	assert.NoError(t, err)
}

func TestEnsureAccountForUnknownContractor(t *testing.T) {
	_, _, svc, _, _ := accountFixtures()

	_, err := svc.EnsureAccount(context.Background(), model.Principal{
		UserID: uuid.New(),
		Role:   model.RoleContractor,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
