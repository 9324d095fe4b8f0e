package features

import (
	"strings"

	"bmwsales/pkg/contracts/domain"
)

// Price tier boundaries in USD
const (
	priceTierMidFloor     = 30_000
	priceTierPremiumFloor = 60_000
	priceTierLuxuryFloor  = 100_000

	// segmentUltraLuxuryFloor marks the Ultra-Luxury price cut-off
	segmentUltraLuxuryFloor = 150_000
)

// PriceTierFor buckets a unit price into one of four fixed tiers
func PriceTierFor(priceUSD float64) domain.PriceTier {
	switch {
	case priceUSD < priceTierMidFloor:
		return domain.PriceTierBudget
	case priceUSD < priceTierPremiumFloor:
		return domain.PriceTierMid
	case priceUSD < priceTierLuxuryFloor:
		return domain.PriceTierPremium
	default:
		return domain.PriceTierLuxury
	}
}

// SegmentFor classifies a record into a market segment. Performance models
// (M cars) win over price; the remaining rows split on price alone, so the
// four labels partition every possible input.
func SegmentFor(model string, priceUSD float64) domain.MarketSegment {
	if isPerformanceModel(model) {
		return domain.SegmentPerformance
	}
	switch {
	case priceUSD >= segmentUltraLuxuryFloor:
		return domain.SegmentUltraLuxury
	case priceUSD >= priceTierPremiumFloor:
		return domain.SegmentPremium
	default:
		return domain.SegmentEntry
	}
}

// isPerformanceModel recognizes the M lineup: standalone M models ("M3",
// "M240i") and M variants of other series ("X5 M").
func isPerformanceModel(model string) bool {
	for _, token := range strings.Fields(model) {
		if token == "M" {
			return true
		}
		if len(token) >= 2 && token[0] == 'M' && token[1] >= '0' && token[1] <= '9' {
			return true
		}
	}
	return false
}

// AgeTierFor buckets a vehicle age in years
func AgeTierFor(age int) domain.AgeTier {
	switch {
	case age <= 2:
		return domain.AgeTierNew
	case age <= 5:
		return domain.AgeTierRecent
	case age <= 10:
		return domain.AgeTierMid
	default:
		return domain.AgeTierLegacy
	}
}

// EngineTierFor buckets engine displacement in liters. Zero displacement
// is an EV.
func EngineTierFor(engineSizeL float64) domain.EngineTier {
	switch {
	case engineSizeL <= 0:
		return domain.EngineTierElectric
	case engineSizeL < 2.0:
		return domain.EngineTierSmall
	case engineSizeL < 3.5:
		return domain.EngineTierMedium
	default:
		return domain.EngineTierLarge
	}
}
