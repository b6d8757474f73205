package model

import "github.com/shopspring/decimal"

// Keys of the pricing_settings table. The set is fixed; rows are edited by
// configuration administration, never by this service.
const (
	SettingBasePrice                = "base_price"
	SettingPricePerSqm              = "price_per_sqm"
	SettingTierMultiplier           = "tier_multiplier"
	SettingSlopeMildMultiplier      = "slope_mild_multiplier"
	SettingSlopeSteepMultiplier     = "slope_steep_multiplier"
	SettingGrassShortMultiplier     = "grass_short_multiplier"
	SettingGrassMediumMultiplier    = "grass_medium_multiplier"
	SettingGrassLongMultiplier      = "grass_long_multiplier"
	SettingGrassOvergrownMultiplier = "grass_overgrown_multiplier"
	SettingClippingRemovalCost      = "clipping_removal_cost"
	SettingSaturdayMultiplier       = "saturday_multiplier"
	SettingSundayMultiplier         = "sunday_multiplier"
	SettingResponseWindowHours      = "contractor_response_window_hours"
)

type PricingSetting struct {
	Key   string
	Value decimal.Decimal
}

type GrassLength string

const (
	GrassShort     GrassLength = "short"
	GrassMedium    GrassLength = "medium"
	GrassLong      GrassLength = "long"
	GrassOvergrown GrassLength = "overgrown"
)
