package domain

import (
	"strings"
)

// SalesRecord represents a single vehicle sales record from the raw dataset.
// Derived fields are zero-valued until feature engineering runs.
type SalesRecord struct {
	Model        string  `json:"model" csv:"Model" validate:"required"`
	Year         int     `json:"year" csv:"Year" validate:"min=2010,max=2024"`
	Month        int     `json:"month,omitempty" csv:"Month" validate:"min=0,max=12"`
	Region       string  `json:"region" csv:"Region" validate:"required"`
	Color        string  `json:"color,omitempty" csv:"Color"`
	FuelType     string  `json:"fuel_type" csv:"Fuel_Type" validate:"required"`
	Transmission string  `json:"transmission,omitempty" csv:"Transmission"`
	EngineSizeL  float64 `json:"engine_size_l" csv:"Engine_Size_L" validate:"min=0"`
	MileageKM    float64 `json:"mileage_km" csv:"Mileage_KM" validate:"min=0"`
	PriceUSD     float64 `json:"price_usd" csv:"Price_USD" validate:"gt=0"`
	SalesVolume  float64 `json:"sales_volume" csv:"Sales_Volume" validate:"min=0"`

	// Derived fields populated by feature engineering
	PriceTier     PriceTier     `json:"price_tier,omitempty" csv:"Price_Tier"`
	MarketSegment MarketSegment `json:"market_segment,omitempty" csv:"Market_Segment"`
	VehicleAge    int           `json:"vehicle_age,omitempty" csv:"Vehicle_Age"`
	AgeTier       AgeTier       `json:"age_tier,omitempty" csv:"Age_Tier"`
	EngineTier    EngineTier    `json:"engine_tier,omitempty" csv:"Engine_Tier"`
	GreenVehicle  bool          `json:"green_vehicle,omitempty" csv:"Green_Vehicle"`
	MarketShare   float64       `json:"market_share,omitempty" csv:"Market_Share"`
}

// Dataset bounds. Records outside this range are dropped during cleaning.
const (
	MinYear = 2010
	MaxYear = 2024

	// ReferenceYear anchors vehicle-age derivation to the last dataset year.
	ReferenceYear = 2024
)

// PriceTier buckets unit price into four fixed ranges
type PriceTier string

const (
	PriceTierBudget  PriceTier = "Budget"
	PriceTierMid     PriceTier = "Mid"
	PriceTierPremium PriceTier = "Premium"
	PriceTierLuxury  PriceTier = "Luxury"
)

// MarketSegment classifies a record into one of four market segments
type MarketSegment string

const (
	SegmentEntry       MarketSegment = "Entry"
	SegmentPremium     MarketSegment = "Premium"
	SegmentPerformance MarketSegment = "Performance"
	SegmentUltraLuxury MarketSegment = "Ultra-Luxury"
)

// MarketSegments lists every valid segment label in display order
var MarketSegments = []MarketSegment{
	SegmentEntry,
	SegmentPremium,
	SegmentPerformance,
	SegmentUltraLuxury,
}

// AgeTier buckets vehicle age relative to ReferenceYear
type AgeTier string

const (
	AgeTierNew    AgeTier = "New"
	AgeTierRecent AgeTier = "Recent"
	AgeTierMid    AgeTier = "Mid"
	AgeTierLegacy AgeTier = "Legacy"
)

// EngineTier buckets engine displacement
type EngineTier string

const (
	EngineTierElectric EngineTier = "Electric"
	EngineTierSmall    EngineTier = "Small"
	EngineTierMedium   EngineTier = "Medium"
	EngineTierLarge    EngineTier = "Large"
)

// Fuel type labels as they appear in the raw dataset
const (
	FuelPetrol       = "Petrol"
	FuelDiesel       = "Diesel"
	FuelHybrid       = "Hybrid"
	FuelPluginHybrid = "Plug-in Hybrid"
	FuelElectric     = "Electric"
)

// IsGreenFuel reports whether a fuel type counts as a green powertrain
// (electric or any hybrid variant). Matching is case-insensitive.
func IsGreenFuel(fuelType string) bool {
	switch strings.ToLower(strings.TrimSpace(fuelType)) {
	case "electric", "ev", "hybrid", "plug-in hybrid", "phev":
		return true
	}
	return false
}

// IsValid reports whether a record passes the domain sanity checks:
// positive price, non-negative volume, year within the dataset range.
func (r *SalesRecord) IsValid() bool {
	if r.PriceUSD <= 0 {
		return false
	}
	if r.SalesVolume < 0 {
		return false
	}
	if r.Year < MinYear || r.Year > MaxYear {
		return false
	}
	return true
}

// GroupKey identifies the comparison group used for market-share derivation.
func (r *SalesRecord) GroupKey() GroupKey {
	return GroupKey{Region: r.Region, Year: r.Year}
}

// GroupKey is a (region, year) pair used to group records for share and
// roll-up calculations.
type GroupKey struct {
	Region string
	Year   int
}
