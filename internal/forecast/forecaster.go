package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"bmwsales/internal/config"
	"bmwsales/internal/errors"
	"bmwsales/internal/exporter"
	"bmwsales/internal/infrastructure"
	"bmwsales/pkg/contracts/domain"
)

// monthlySeasonPeriod is the seasonal cycle length for monthly data.
const monthlySeasonPeriod = 12

// OverallSlice names the forecast slice covering every region.
const OverallSlice = "overall"

// Prediction is one forecast value for one slice and period.
type Prediction struct {
	Slice    string
	Period   string
	Forecast float64
}

// Forecaster fits volume forecasts per region and overall. When the
// dataset carries month information it also fits a seasonal monthly
// model on the overall series.
type Forecaster struct {
	cfg config.ForecastConfig
	csv *exporter.CSVWriter
}

// NewForecaster creates a forecaster with the given smoothing settings.
func NewForecaster(cfg config.ForecastConfig, csv *exporter.CSVWriter) *Forecaster {
	return &Forecaster{cfg: cfg, csv: csv}
}

// Run fits every slice and returns the predictions in deterministic
// order. Slices with too few points are skipped with a warning; the run
// fails only when no slice could be fit.
func (f *Forecaster) Run(ctx context.Context, records []domain.SalesRecord) ([]Prediction, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	holt, err := NewHolt(f.cfg.Alpha, f.cfg.Beta)
	if err != nil {
		return nil, err
	}

	slices := yearlySlices(records)
	names := make([]string, 0, len(slices))
	for name := range slices {
		names = append(names, name)
	}
	sort.Strings(names)

	var predictions []Prediction
	for _, name := range names {
		s := slices[name]
		forecasts, err := holt.Fit(s.values, f.cfg.Horizon)
		if err != nil {
			logger.WarnContext(ctx, "skipping forecast slice",
				slog.String("slice", name),
				slog.Int("points", len(s.values)),
				slog.String("reason", err.Error()))
			continue
		}
		for i, v := range forecasts {
			predictions = append(predictions, Prediction{
				Slice:    name,
				Period:   strconv.Itoa(s.lastYear + i + 1),
				Forecast: math.Max(0, v),
			})
		}
		logger.InfoContext(ctx, "forecast slice fitted",
			slog.String("slice", name),
			slog.Int("points", len(s.values)),
			slog.Int("horizon", f.cfg.Horizon))
	}

	if monthly := f.monthlyPredictions(ctx, records); len(monthly) > 0 {
		predictions = append(predictions, monthly...)
	}

	if len(predictions) == 0 {
		return nil, errors.NewAnalysisError("no forecastable slices in dataset", nil)
	}
	return predictions, nil
}

// monthlyPredictions fits a seasonal model on the overall monthly
// series when the dataset carries month data. Returns nil when the
// series is absent or too short.
func (f *Forecaster) monthlyPredictions(ctx context.Context, records []domain.SalesRecord) []Prediction {
	logger := infrastructure.LoggerFromContext(ctx)

	series, last := monthlySeries(records)
	if len(series) < 2*monthlySeasonPeriod {
		return nil
	}

	hw, err := NewHoltWinters(f.cfg.Alpha, f.cfg.Beta, f.cfg.Gamma, monthlySeasonPeriod)
	if err != nil {
		logger.WarnContext(ctx, "seasonal model misconfigured", slog.String("error", err.Error()))
		return nil
	}
	forecasts, err := hw.Fit(series, f.cfg.Horizon)
	if err != nil {
		logger.WarnContext(ctx, "skipping seasonal slice", slog.String("reason", err.Error()))
		return nil
	}

	predictions := make([]Prediction, 0, len(forecasts))
	year, month := last.year, last.month
	for _, v := range forecasts {
		month++
		if month > 12 {
			month = 1
			year++
		}
		predictions = append(predictions, Prediction{
			Slice:    OverallSlice + "-monthly",
			Period:   fmt.Sprintf("%04d-%02d", year, month),
			Forecast: math.Max(0, v),
		})
	}
	return predictions
}

// WriteCSV writes the predictions to the given path.
func (f *Forecaster) WriteCSV(predictions []Prediction, path string) error {
	rows := make([][]string, 0, len(predictions))
	for _, p := range predictions {
		rows = append(rows, []string{
			p.Slice,
			p.Period,
			strconv.FormatFloat(p.Forecast, 'f', 2, 64),
		})
	}
	if err := f.csv.WriteSimpleCSV(path, []string{"Slice", "Period", "Forecast"}, rows); err != nil {
		return errors.NewStorageError("failed to write forecast file", err)
	}
	return nil
}

type monthKey struct{ year, month int }

func (k monthKey) before(o monthKey) bool {
	if k.year != o.year {
		return k.year < o.year
	}
	return k.month < o.month
}

func (k monthKey) next() monthKey {
	if k.month == 12 {
		return monthKey{k.year + 1, 1}
	}
	return monthKey{k.year, k.month + 1}
}

// monthlySeries builds the overall per-month volume series, calendar
// contiguous from the first observed month to the last. Months with no
// records inside that span count as zero volume so the seasonal phase
// stays aligned across gaps.
func monthlySeries(records []domain.SalesRecord) ([]float64, monthKey) {
	totals := make(map[monthKey]float64)
	first := monthKey{}
	last := monthKey{}
	for _, r := range records {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		k := monthKey{r.Year, r.Month}
		if len(totals) == 0 {
			first, last = k, k
		} else {
			if k.before(first) {
				first = k
			}
			if last.before(k) {
				last = k
			}
		}
		totals[k] += r.SalesVolume
	}
	if len(totals) == 0 {
		return nil, monthKey{}
	}

	var series []float64
	for k := first; ; k = k.next() {
		series = append(series, totals[k])
		if k == last {
			break
		}
	}
	return series, last
}

type yearlySlice struct {
	values   []float64
	lastYear int
}

// yearlySlices builds the per-region and overall yearly volume series.
func yearlySlices(records []domain.SalesRecord) map[string]yearlySlice {
	type sliceKey struct {
		name string
		year int
	}
	totals := make(map[sliceKey]float64)
	yearsBySlice := make(map[string]map[int]bool)

	add := func(name string, year int, volume float64) {
		totals[sliceKey{name, year}] += volume
		if yearsBySlice[name] == nil {
			yearsBySlice[name] = make(map[int]bool)
		}
		yearsBySlice[name][year] = true
	}

	for _, r := range records {
		add(OverallSlice, r.Year, r.SalesVolume)
		add("region:"+r.Region, r.Year, r.SalesVolume)
	}

	slices := make(map[string]yearlySlice, len(yearsBySlice))
	for name, yearSet := range yearsBySlice {
		years := make([]int, 0, len(yearSet))
		for y := range yearSet {
			years = append(years, y)
		}
		sort.Ints(years)

		values := make([]float64, len(years))
		for i, y := range years {
			values[i] = totals[sliceKey{name, y}]
		}
		slices[name] = yearlySlice{values: values, lastYear: years[len(years)-1]}
	}
	return slices
}
