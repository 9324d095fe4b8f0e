package analysis

import (
	"context"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"bmwsales/internal/infrastructure"
	"bmwsales/pkg/contracts/domain"
)

// CorrelationReport holds Pearson correlations between unit price and
// sales volume
type CorrelationReport struct {
	Overall    float64
	PerSegment map[domain.MarketSegment]float64
}

// PriceVolumeCorrelation computes the Pearson correlation between price
// and volume, overall and per market segment. Slices with fewer than two
// points get a zero correlation and a warning.
func PriceVolumeCorrelation(ctx context.Context, records []domain.SalesRecord) CorrelationReport {
	report := CorrelationReport{
		PerSegment: make(map[domain.MarketSegment]float64),
	}

	prices := make([]float64, 0, len(records))
	volumes := make([]float64, 0, len(records))
	segPrices := make(map[domain.MarketSegment][]float64)
	segVolumes := make(map[domain.MarketSegment][]float64)

	for _, r := range records {
		prices = append(prices, r.PriceUSD)
		volumes = append(volumes, r.SalesVolume)
		segPrices[r.MarketSegment] = append(segPrices[r.MarketSegment], r.PriceUSD)
		segVolumes[r.MarketSegment] = append(segVolumes[r.MarketSegment], r.SalesVolume)
	}

	report.Overall = correlation(ctx, "overall", prices, volumes)
	for segment := range segPrices {
		report.PerSegment[segment] = correlation(ctx, string(segment), segPrices[segment], segVolumes[segment])
	}

	return report
}

// correlation wraps gonum's Pearson correlation with the degenerate-slice
// handling the dataset needs.
func correlation(ctx context.Context, slice string, xs, ys []float64) float64 {
	logger := infrastructure.LoggerFromContext(ctx)

	if len(xs) < 2 {
		logger.WarnContext(ctx, "not enough points for correlation",
			slog.String("slice", slice),
			slog.Int("points", len(xs)))
		return 0
	}

	r := stat.Correlation(xs, ys, nil)
	if r != r { // NaN when a slice has zero variance
		logger.WarnContext(ctx, "degenerate correlation slice",
			slog.String("slice", slice))
		return 0
	}
	return r
}
