package features

import (
	"context"
	"log/slog"

	"bmwsales/internal/errors"
	"bmwsales/internal/infrastructure"
	"bmwsales/pkg/contracts/domain"
)

// Engineer derives the categorical buckets and aggregate columns from
// cleaned sales records. Every derived column is a pure function of the
// row itself or of a (region, year) group total.
type Engineer struct {
	referenceYear int
}

// NewEngineer creates an engineer anchored at the given reference year
// for vehicle-age derivation. Zero falls back to the dataset's last year.
func NewEngineer(referenceYear int) *Engineer {
	if referenceYear == 0 {
		referenceYear = domain.ReferenceYear
	}
	return &Engineer{referenceYear: referenceYear}
}

// Apply returns a copy of the records with all derived fields populated.
func (e *Engineer) Apply(ctx context.Context, records []domain.SalesRecord) ([]domain.SalesRecord, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	if len(records) == 0 {
		return nil, errors.NewValidationError("feature engineering requires at least one record")
	}

	out := make([]domain.SalesRecord, len(records))
	copy(out, records)

	// Group totals for market share
	groupTotals := make(map[domain.GroupKey]float64)
	for _, r := range out {
		groupTotals[r.GroupKey()] += r.SalesVolume
	}

	for i := range out {
		r := &out[i]
		r.PriceTier = PriceTierFor(r.PriceUSD)
		r.MarketSegment = SegmentFor(r.Model, r.PriceUSD)
		r.VehicleAge = e.referenceYear - r.Year
		r.AgeTier = AgeTierFor(r.VehicleAge)
		r.EngineTier = EngineTierFor(r.EngineSizeL)
		r.GreenVehicle = domain.IsGreenFuel(r.FuelType)

		if total := groupTotals[r.GroupKey()]; total > 0 {
			r.MarketShare = r.SalesVolume / total
		} else {
			r.MarketShare = 0
		}
	}

	logger.InfoContext(ctx, "derived features",
		slog.Int("records", len(out)),
		slog.Int("groups", len(groupTotals)),
		slog.Int("reference_year", e.referenceYear))

	return out, nil
}
