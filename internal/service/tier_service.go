package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/mowops-settlement/internal/model"
	"github.com/nurpe/mowops-settlement/internal/notify"
)

const (
	standardMinJobs   = 5
	standardMinRating = 4.5

	premiumPlatformMinJobs = 50
	premiumMinJobs         = 50
	premiumMinRating       = 4.7
)

// TierService re-scores contractors against the promotion thresholds.
// Promotion is monotonic and keyed on the current tier, so the batch is safe
// to run arbitrarily often and concurrently with itself.
type TierService struct {
	contractors ContractorStore
	notifier    NotificationSender
	exporter    PromotionExporter
	log         zerolog.Logger
}

type Promotion struct {
	ContractorID uuid.UUID  `json:"contractor_id"`
	From         model.Tier `json:"from"`
	To           model.Tier `json:"to"`
}

func NewTierService(contractors ContractorStore, notifier NotificationSender, exporter PromotionExporter, log zerolog.Logger) *TierService {
	return &TierService{contractors: contractors, notifier: notifier, exporter: exporter, log: log}
}

func (s *TierService) Run(ctx context.Context) ([]Promotion, error) {
	platformCompleted, err := s.contractors.PlatformCompletedCount(ctx)
	if err != nil {
		return nil, err
	}
	premiumGateOpen := platformCompleted >= premiumPlatformMinJobs

	candidates, err := s.contractors.ListPromotable(ctx)
	if err != nil {
		return nil, err
	}

	promotions := make([]Promotion, 0)
	for _, contractor := range candidates {
		stats, err := s.contractors.Stats(ctx, contractor.ID)
		if err != nil {
			s.log.Error().Err(err).Str("contractor_id", contractor.ID.String()).Msg("contractor stats failed, skipping")
			continue
		}

		target, ok := targetTier(contractor.Tier, stats, premiumGateOpen)
		if !ok {
			continue
		}

		promoted, err := s.contractors.Promote(ctx, contractor.ID, contractor.Tier, target)
		if err != nil {
			s.log.Error().Err(err).Str("contractor_id", contractor.ID.String()).Msg("tier update failed, skipping")
			continue
		}
		if !promoted {
			continue
		}

		if err := s.contractors.RecordPromotion(ctx, contractor.ID, contractor.Tier, target); err != nil {
			s.log.Error().Err(err).Str("contractor_id", contractor.ID.String()).Msg("promotion record failed")
		}

		s.notifier.Notify(ctx, notify.Message{
			UserID: contractor.UserID,
			Email:  contractor.Email,
			Kind:   model.NotificationTierPromoted,
			Title:  "You have been promoted",
			Body:   fmt.Sprintf("Congratulations! Your contractor tier moved from %s to %s.", contractor.Tier, target),
		})

		s.log.Info().
			Str("contractor_id", contractor.ID.String()).
			Str("from", string(contractor.Tier)).
			Str("to", string(target)).
			Msg("contractor promoted")

		promotions = append(promotions, Promotion{
			ContractorID: contractor.ID,
			From:         contractor.Tier,
			To:           target,
		})
	}

	return promotions, nil
}

type PromotionExport struct {
	FileName string
	Content  []byte
}

// Export renders the promotion history workbook.
func (s *TierService) Export(ctx context.Context) (*PromotionExport, error) {
	promotions, err := s.contractors.ListPromotions(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.exporter.Generate(promotions)
	if err != nil {
		return nil, err
	}

	return &PromotionExport{
		FileName: fmt.Sprintf("tier-promotions-%s.xlsx", time.Now().UTC().Format("20060102")),
		Content:  content,
	}, nil
}

func targetTier(current model.Tier, stats *model.ContractorStats, premiumGateOpen bool) (model.Tier, bool) {
	switch current {
	case model.TierProbation:
		if stats.CompletedJobs >= standardMinJobs &&
			stats.ReviewCount > 0 &&
			stats.AverageRating >= standardMinRating {
			return model.TierStandard, true
		}
	case model.TierStandard:
		if !premiumGateOpen {
			return "", false
		}
		if stats.CompletedJobs >= premiumMinJobs &&
			stats.AverageRating >= premiumMinRating &&
			disputeRateBelowThreshold(stats.Disputes, stats.CompletedJobs) {
			return model.TierPremium, true
		}
	}
	return "", false
}

// disputeRateBelowThreshold checks disputes/completed < 3% without floating
// point: 100*disputes < 3*completed.
func disputeRateBelowThreshold(disputes, completed int64) bool {
	if completed == 0 {
		return false
	}
	return 100*disputes < 3*completed
}
