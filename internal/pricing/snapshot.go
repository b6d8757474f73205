package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/mowops-settlement/internal/model"
)

// Snapshot is an immutable copy of the pricing_settings table taken before a
// quote is computed. Lookups never fail: a missing multiplier reads as 1 and
// a missing charge reads as 0.
type Snapshot struct {
	values map[string]decimal.Decimal
}

func NewSnapshot(settings []model.PricingSetting) Snapshot {
	values := make(map[string]decimal.Decimal, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	return Snapshot{values: values}
}

func (s Snapshot) Multiplier(key string) decimal.Decimal {
	if value, ok := s.values[key]; ok {
		return value
	}
	return decimal.NewFromInt(1)
}

func (s Snapshot) Charge(key string) decimal.Decimal {
	if value, ok := s.values[key]; ok {
		return value
	}
	return decimal.Zero
}
