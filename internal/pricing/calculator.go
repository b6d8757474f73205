package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/mowops-settlement/internal/model"
)

type Input struct {
	SquareMeters     decimal.Decimal
	Slope            model.Slope
	TierCount        int
	GrassLength      model.GrassLength
	ClippingsRemoval bool
	ScheduledDate    time.Time
	Settings         Snapshot
}

type Breakdown struct {
	BasePrice     decimal.Decimal `json:"base_price"`
	AreaPrice     decimal.Decimal `json:"area_price"`
	SlopeMult     decimal.Decimal `json:"slope_multiplier"`
	TierMult      decimal.Decimal `json:"tier_multiplier"`
	GrassMult     decimal.Decimal `json:"grass_multiplier"`
	ClippingsCost decimal.Decimal `json:"clippings_cost"`
	DaySurcharge  decimal.Decimal `json:"day_surcharge"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
}

// Calculate is pure: same input, same breakdown. Rounding happens in exactly
// three places (area price, subtotal, total); everything in between stays at
// full precision.
func Calculate(input Input) Breakdown {
	settings := input.Settings

	basePrice := settings.Charge(model.SettingBasePrice)
	areaPrice := input.SquareMeters.Mul(settings.Charge(model.SettingPricePerSqm)).Round(2)

	slopeMult := slopeMultiplier(settings, input.Slope)
	tierMult := tierMultiplier(settings, input.TierCount)
	grassMult := grassMultiplier(settings, input.GrassLength)

	clippingsCost := decimal.Zero
	if input.ClippingsRemoval {
		clippingsCost = settings.Charge(model.SettingClippingRemovalCost)
	}

	daySurcharge := weekendMultiplier(settings, input.ScheduledDate)

	subtotal := basePrice.Add(areaPrice).
		Mul(slopeMult).
		Mul(tierMult).
		Mul(grassMult).
		Round(2)

	total := subtotal.Mul(daySurcharge).Add(clippingsCost).Round(2)

	return Breakdown{
		BasePrice:     basePrice,
		AreaPrice:     areaPrice,
		SlopeMult:     slopeMult,
		TierMult:      tierMult,
		GrassMult:     grassMult,
		ClippingsCost: clippingsCost,
		DaySurcharge:  daySurcharge,
		Subtotal:      subtotal,
		Total:         total,
	}
}

func slopeMultiplier(settings Snapshot, slope model.Slope) decimal.Decimal {
	switch slope {
	case model.SlopeMild:
		return settings.Multiplier(model.SettingSlopeMildMultiplier)
	case model.SlopeSteep:
		return settings.Multiplier(model.SettingSlopeSteepMultiplier)
	default:
		return decimal.NewFromInt(1)
	}
}

func tierMultiplier(settings Snapshot, tierCount int) decimal.Decimal {
	if tierCount <= 1 {
		return decimal.NewFromInt(1)
	}
	perExtraTier := settings.Charge(model.SettingTierMultiplier)
	extra := decimal.NewFromInt(int64(tierCount - 1)).Mul(perExtraTier)
	return decimal.NewFromInt(1).Add(extra)
}

func grassMultiplier(settings Snapshot, grass model.GrassLength) decimal.Decimal {
	switch grass {
	case model.GrassShort:
		return settings.Multiplier(model.SettingGrassShortMultiplier)
	case model.GrassMedium:
		return settings.Multiplier(model.SettingGrassMediumMultiplier)
	case model.GrassLong:
		return settings.Multiplier(model.SettingGrassLongMultiplier)
	case model.GrassOvergrown:
		return settings.Multiplier(model.SettingGrassOvergrownMultiplier)
	default:
		return decimal.NewFromInt(1)
	}
}

func weekendMultiplier(settings Snapshot, date time.Time) decimal.Decimal {
	switch date.Weekday() {
	case time.Saturday:
		return settings.Multiplier(model.SettingSaturdayMultiplier)
	case time.Sunday:
		return settings.Multiplier(model.SettingSundayMultiplier)
	default:
		return decimal.NewFromInt(1)
	}
}
