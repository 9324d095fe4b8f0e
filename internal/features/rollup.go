package features

import (
	"sort"

	"bmwsales/pkg/contracts/domain"
)

// YearlyAggregate is one row of the yearly roll-up table
type YearlyAggregate struct {
	Year        int
	TotalVolume float64
	AvgPrice    float64
	GreenVolume float64
	SalesYoYPct float64
	PriceYoYPct float64
}

// RegionYearVolume is a (region, year) volume total
type RegionYearVolume struct {
	Region      string
	Year        int
	TotalVolume float64
}

// YearlyRollup aggregates records per year: total volume, mean price,
// green-vehicle volume, and year-over-year percentage changes. Years come
// back in ascending order; the first year has zero YoY values.
func YearlyRollup(records []domain.SalesRecord) []YearlyAggregate {
	type acc struct {
		volume      float64
		priceSum    float64
		count       int
		greenVolume float64
	}

	byYear := make(map[int]*acc)
	for _, r := range records {
		a := byYear[r.Year]
		if a == nil {
			a = &acc{}
			byYear[r.Year] = a
		}
		a.volume += r.SalesVolume
		a.priceSum += r.PriceUSD
		a.count++
		if r.GreenVehicle {
			a.greenVolume += r.SalesVolume
		}
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	rollup := make([]YearlyAggregate, 0, len(years))
	for _, year := range years {
		a := byYear[year]
		agg := YearlyAggregate{
			Year:        year,
			TotalVolume: a.volume,
			GreenVolume: a.greenVolume,
		}
		if a.count > 0 {
			agg.AvgPrice = a.priceSum / float64(a.count)
		}
		rollup = append(rollup, agg)
	}

	for i := 1; i < len(rollup); i++ {
		prev := rollup[i-1]
		if prev.TotalVolume > 0 {
			rollup[i].SalesYoYPct = (rollup[i].TotalVolume - prev.TotalVolume) / prev.TotalVolume * 100
		}
		if prev.AvgPrice > 0 {
			rollup[i].PriceYoYPct = (rollup[i].AvgPrice - prev.AvgPrice) / prev.AvgPrice * 100
		}
	}

	return rollup
}

// RegionYearRollup aggregates volume per (region, year), sorted by region
// then year.
func RegionYearRollup(records []domain.SalesRecord) []RegionYearVolume {
	totals := make(map[domain.GroupKey]float64)
	for _, r := range records {
		totals[r.GroupKey()] += r.SalesVolume
	}

	rollup := make([]RegionYearVolume, 0, len(totals))
	for key, volume := range totals {
		rollup = append(rollup, RegionYearVolume{
			Region:      key.Region,
			Year:        key.Year,
			TotalVolume: volume,
		})
	}

	sort.Slice(rollup, func(i, j int) bool {
		if rollup[i].Region != rollup[j].Region {
			return rollup[i].Region < rollup[j].Region
		}
		return rollup[i].Year < rollup[j].Year
	})

	return rollup
}
