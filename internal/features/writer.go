package features

import (
	"fmt"
	"strconv"

	"bmwsales/internal/dataset"
	"bmwsales/internal/errors"
	"bmwsales/internal/exporter"
	"bmwsales/pkg/contracts/domain"
)

// FeatureColumns is the column set of the features table, in output order
var FeatureColumns = []string{
	dataset.ColModel,
	dataset.ColYear,
	dataset.ColMonth,
	dataset.ColRegion,
	dataset.ColColor,
	dataset.ColFuelType,
	dataset.ColTransmission,
	dataset.ColEngineSizeL,
	dataset.ColMileageKM,
	dataset.ColPriceUSD,
	dataset.ColSalesVolume,
	"Price_Tier",
	"Market_Segment",
	"Vehicle_Age",
	"Age_Tier",
	"Engine_Tier",
	"Green_Vehicle",
	"Market_Share",
}

// YearlyColumns is the column set of the yearly roll-up table
var YearlyColumns = []string{
	"Year", "Total_Volume", "Avg_Price", "Green_Volume", "Sales_YoY_Pct", "Price_YoY_Pct",
}

// RegionYearColumns is the column set of the region-year roll-up table
var RegionYearColumns = []string{"Region", "Year", "Total_Volume"}

// WriteFeaturesCSV streams the augmented records to a CSV file. The
// features table is the largest output, one row per record, so it goes
// through the streaming writer instead of being buffered whole.
func WriteFeaturesCSV(w *exporter.CSVWriter, path string, records []domain.SalesRecord) error {
	sw, err := w.CreateStreamWriter(path, FeatureColumns)
	if err != nil {
		return errors.NewStorageError("failed to create features table", err)
	}

	for _, r := range records {
		row := []string{
			r.Model,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.Region,
			r.Color,
			r.FuelType,
			r.Transmission,
			formatFloat(r.EngineSizeL),
			formatFloat(r.MileageKM),
			formatFloat(r.PriceUSD),
			formatFloat(r.SalesVolume),
			string(r.PriceTier),
			string(r.MarketSegment),
			strconv.Itoa(r.VehicleAge),
			string(r.AgeTier),
			string(r.EngineTier),
			strconv.FormatBool(r.GreenVehicle),
			fmt.Sprintf("%.6f", r.MarketShare),
		}
		if err := sw.WriteRecord(row); err != nil {
			sw.Close()
			return errors.NewStorageError("failed to write features row", err)
		}
	}

	if err := sw.Close(); err != nil {
		return errors.NewStorageError("failed to flush features table", err)
	}
	return nil
}

// WriteYearlyCSV writes the yearly roll-up table to a CSV file
func WriteYearlyCSV(w *exporter.CSVWriter, path string, rollup []YearlyAggregate) error {
	rows := make([][]string, 0, len(rollup))
	for _, agg := range rollup {
		rows = append(rows, []string{
			strconv.Itoa(agg.Year),
			formatFloat(agg.TotalVolume),
			fmt.Sprintf("%.2f", agg.AvgPrice),
			formatFloat(agg.GreenVolume),
			fmt.Sprintf("%.2f", agg.SalesYoYPct),
			fmt.Sprintf("%.2f", agg.PriceYoYPct),
		})
	}

	if err := w.WriteSimpleCSV(path, YearlyColumns, rows); err != nil {
		return errors.NewStorageError("failed to write yearly roll-up table", err)
	}
	return nil
}

// WriteRegionYearCSV writes the (region, year) roll-up table to a CSV file
func WriteRegionYearCSV(w *exporter.CSVWriter, path string, rollup []RegionYearVolume) error {
	rows := make([][]string, 0, len(rollup))
	for _, rv := range rollup {
		rows = append(rows, []string{
			rv.Region,
			strconv.Itoa(rv.Year),
			formatFloat(rv.TotalVolume),
		})
	}

	if err := w.WriteSimpleCSV(path, RegionYearColumns, rows); err != nil {
		return errors.NewStorageError("failed to write region-year roll-up table", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
