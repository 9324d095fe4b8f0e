package analysis

import (
	"sort"

	"bmwsales/internal/features"
	"bmwsales/pkg/contracts/domain"
)

// SegmentMetric holds the per-segment performance numbers
type SegmentMetric struct {
	Segment      domain.MarketSegment
	TotalVolume  float64
	SharePct     float64
	AvgPrice     float64
	YoYGrowthPct float64
}

// SegmentMetrics computes volume, share of total volume, mean price, and
// year-over-year growth per market segment. Growth compares the last two
// years present in the data; with fewer than two years it stays zero.
func SegmentMetrics(records []domain.SalesRecord) []SegmentMetric {
	type acc struct {
		volume   float64
		priceSum float64
		count    int
		byYear   map[int]float64
	}

	bySegment := make(map[domain.MarketSegment]*acc)
	total := 0.0
	yearSet := make(map[int]bool)

	for _, r := range records {
		a := bySegment[r.MarketSegment]
		if a == nil {
			a = &acc{byYear: make(map[int]float64)}
			bySegment[r.MarketSegment] = a
		}
		a.volume += r.SalesVolume
		a.priceSum += r.PriceUSD
		a.count++
		a.byYear[r.Year] += r.SalesVolume
		total += r.SalesVolume
		yearSet[r.Year] = true
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	metrics := make([]SegmentMetric, 0, len(bySegment))
	for _, segment := range domain.MarketSegments {
		a := bySegment[segment]
		if a == nil {
			continue
		}

		m := SegmentMetric{
			Segment:     segment,
			TotalVolume: a.volume,
		}
		if total > 0 {
			m.SharePct = a.volume / total * 100
		}
		if a.count > 0 {
			m.AvgPrice = a.priceSum / float64(a.count)
		}
		if len(years) >= 2 {
			last := a.byYear[years[len(years)-1]]
			prev := a.byYear[years[len(years)-2]]
			if prev > 0 {
				m.YoYGrowthPct = (last - prev) / prev * 100
			}
		}

		metrics = append(metrics, m)
	}

	return metrics
}

// ModelVolume pairs a model with its total volume
type ModelVolume struct {
	Model       string
	TotalVolume float64
}

// RegionalReport summarizes sales performance by region
type RegionalReport struct {
	// Volumes holds (region, year) totals, region-then-year ordered
	Volumes []features.RegionYearVolume
	// TopModels lists the three best-selling models per region
	TopModels map[string][]ModelVolume
	// SegmentSharePct holds each segment's share of a region's volume
	SegmentSharePct map[string]map[domain.MarketSegment]float64
}

// topModelsPerRegion caps the per-region model ranking
const topModelsPerRegion = 3

// RegionalMetrics computes regional volumes, the top models per region,
// and segment preference shares per region.
func RegionalMetrics(records []domain.SalesRecord) RegionalReport {
	report := RegionalReport{
		Volumes:         features.RegionYearRollup(records),
		TopModels:       make(map[string][]ModelVolume),
		SegmentSharePct: make(map[string]map[domain.MarketSegment]float64),
	}

	modelTotals := make(map[string]map[string]float64)
	segmentTotals := make(map[string]map[domain.MarketSegment]float64)
	regionTotals := make(map[string]float64)

	for _, r := range records {
		if modelTotals[r.Region] == nil {
			modelTotals[r.Region] = make(map[string]float64)
			segmentTotals[r.Region] = make(map[domain.MarketSegment]float64)
		}
		modelTotals[r.Region][r.Model] += r.SalesVolume
		segmentTotals[r.Region][r.MarketSegment] += r.SalesVolume
		regionTotals[r.Region] += r.SalesVolume
	}

	for region, models := range modelTotals {
		ranked := make([]ModelVolume, 0, len(models))
		for model, volume := range models {
			ranked = append(ranked, ModelVolume{Model: model, TotalVolume: volume})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].TotalVolume != ranked[j].TotalVolume {
				return ranked[i].TotalVolume > ranked[j].TotalVolume
			}
			return ranked[i].Model < ranked[j].Model
		})
		if len(ranked) > topModelsPerRegion {
			ranked = ranked[:topModelsPerRegion]
		}
		report.TopModels[region] = ranked
	}

	for region, segments := range segmentTotals {
		shares := make(map[domain.MarketSegment]float64, len(segments))
		for segment, volume := range segments {
			if regionTotals[region] > 0 {
				shares[segment] = volume / regionTotals[region] * 100
			}
		}
		report.SegmentSharePct[region] = shares
	}

	return report
}

// TimeSeriesMetrics holds trend numbers derived from the yearly roll-up
type TimeSeriesMetrics struct {
	AvgYearlyGrowthPct    float64
	PriceTrendPct         float64
	GreenVehicleGrowthPct float64
}

// ComputeTimeSeriesMetrics derives average yearly growth, the average
// price trend, and green-vehicle growth from first to last year.
func ComputeTimeSeriesMetrics(rollup []features.YearlyAggregate) TimeSeriesMetrics {
	var metrics TimeSeriesMetrics
	if len(rollup) < 2 {
		return metrics
	}

	var growthSum, priceSum float64
	for _, agg := range rollup[1:] {
		growthSum += agg.SalesYoYPct
		priceSum += agg.PriceYoYPct
	}
	n := float64(len(rollup) - 1)
	metrics.AvgYearlyGrowthPct = growthSum / n
	metrics.PriceTrendPct = priceSum / n

	first := rollup[0].GreenVolume
	last := rollup[len(rollup)-1].GreenVolume
	if first > 0 {
		metrics.GreenVehicleGrowthPct = (last/first - 1) * 100
	}

	return metrics
}
