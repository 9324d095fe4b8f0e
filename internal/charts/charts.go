package charts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bmwsales/internal/analysis"
	"bmwsales/internal/errors"
	"bmwsales/internal/features"
	"bmwsales/internal/infrastructure"
	"bmwsales/pkg/contracts/domain"
)

// Chart file names written under the charts directory.
const (
	SalesTrendPNG         = "sales_trend.png"
	SegmentSalesPNG       = "segment_sales.png"
	RegionSalesPNG        = "region_sales.png"
	GreenAdoptionPNG      = "green_adoption.png"
	PriceVolumeScatterPNG = "price_volume_scatter.png"
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 4 * vg.Inch
)

// Renderer draws the analysis charts as PNG files. A failure in one
// chart does not stop the others.
type Renderer struct {
	dir string
}

// NewRenderer creates a renderer that writes into the given directory.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// RenderAll draws every chart and returns the paths that were written.
// Individual chart failures are logged as warnings, not returned as
// errors, so a broken slice of the data cannot sink the whole run.
func (r *Renderer) RenderAll(ctx context.Context, report *analysis.Report, records []domain.SalesRecord) ([]string, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, errors.NewStorageError("failed to create charts directory", err)
	}

	jobs := []struct {
		name string
		fn   func(string) error
	}{
		{SalesTrendPNG, func(path string) error { return r.salesTrend(report.Yearly, path) }},
		{SegmentSalesPNG, func(path string) error { return r.segmentSales(report.Segments, path) }},
		{RegionSalesPNG, func(path string) error { return r.regionSales(report.Regional.Volumes, path) }},
		{GreenAdoptionPNG, func(path string) error { return r.greenAdoption(report.Yearly, path) }},
		{PriceVolumeScatterPNG, func(path string) error { return r.priceVolumeScatter(records, path) }},
	}

	written := make([]string, 0, len(jobs))
	for _, job := range jobs {
		path := filepath.Join(r.dir, job.name)
		if err := job.fn(path); err != nil {
			logger.WarnContext(ctx, "chart rendering failed",
				slog.String("chart", job.name),
				slog.String("error", err.Error()))
			continue
		}
		written = append(written, path)
		logger.InfoContext(ctx, "chart written", slog.String("path", path))
	}

	return written, nil
}

// salesTrend plots total sales volume per year as a line.
func (r *Renderer) salesTrend(yearly []features.YearlyAggregate, path string) error {
	if len(yearly) == 0 {
		return errors.NewAnalysisError("no yearly data to plot", nil)
	}

	p := plot.New()
	p.Title.Text = "BMW Sales Volume by Year"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Units Sold"

	pts := make(plotter.XYs, len(yearly))
	for i, agg := range yearly {
		pts[i].X = float64(agg.Year)
		pts[i].Y = agg.TotalVolume
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	points.Shape = plotutil.Shape(0)
	p.Add(line, points, plotter.NewGrid())

	return p.Save(chartWidth, chartHeight, path)
}

// segmentSales draws total volume per market segment as bars.
func (r *Renderer) segmentSales(segments []analysis.SegmentMetric, path string) error {
	if len(segments) == 0 {
		return errors.NewAnalysisError("no segment data to plot", nil)
	}

	p := plot.New()
	p.Title.Text = "Sales Volume by Market Segment"
	p.Y.Label.Text = "Units Sold"

	values := make(plotter.Values, len(segments))
	labels := make([]string, len(segments))
	for i, m := range segments {
		values[i] = m.TotalVolume
		labels[i] = string(m.Segment)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(1)
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)

	return p.Save(chartWidth, chartHeight, path)
}

// regionSales draws one line per region of volume over the years.
func (r *Renderer) regionSales(volumes []features.RegionYearVolume, path string) error {
	if len(volumes) == 0 {
		return errors.NewAnalysisError("no regional data to plot", nil)
	}

	p := plot.New()
	p.Title.Text = "Sales Volume by Region"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Units Sold"
	p.Legend.Top = true

	byRegion := make(map[string]plotter.XYs)
	order := make([]string, 0)
	for _, rv := range volumes {
		if _, ok := byRegion[rv.Region]; !ok {
			order = append(order, rv.Region)
		}
		byRegion[rv.Region] = append(byRegion[rv.Region], plotter.XY{
			X: float64(rv.Year), Y: rv.TotalVolume,
		})
	}

	for i, region := range order {
		line, err := plotter.NewLine(byRegion[region])
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(region, line)
	}
	p.Add(plotter.NewGrid())

	return p.Save(chartWidth, chartHeight, path)
}

// greenAdoption plots the yearly share of electrified vehicle sales.
func (r *Renderer) greenAdoption(yearly []features.YearlyAggregate, path string) error {
	if len(yearly) == 0 {
		return errors.NewAnalysisError("no yearly data to plot", nil)
	}

	p := plot.New()
	p.Title.Text = "Green Vehicle Adoption"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Share of Sales (%)"
	p.Y.Min = 0

	pts := make(plotter.XYs, len(yearly))
	for i, agg := range yearly {
		pts[i].X = float64(agg.Year)
		if agg.TotalVolume > 0 {
			pts[i].Y = agg.GreenVolume / agg.TotalVolume * 100
		}
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(2)
	points.Shape = plotutil.Shape(2)
	p.Add(line, points, plotter.NewGrid())

	return p.Save(chartWidth, chartHeight, path)
}

// priceVolumeScatter plots each record's unit price against its volume.
func (r *Renderer) priceVolumeScatter(records []domain.SalesRecord, path string) error {
	if len(records) == 0 {
		return errors.NewAnalysisError("no records to plot", nil)
	}

	p := plot.New()
	p.Title.Text = "Price vs Sales Volume"
	p.X.Label.Text = "Price (USD)"
	p.Y.Label.Text = "Units Sold"

	pts := make(plotter.XYs, len(records))
	for i, rec := range records {
		pts[i].X = rec.PriceUSD
		pts[i].Y = rec.SalesVolume
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	scatter.GlyphStyle.Color = plotutil.Color(3)
	p.Add(scatter, plotter.NewGrid())

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("save scatter plot: %w", err)
	}
	return nil
}
