package dataset

import (
	"context"
	"log/slog"
	"strconv"

	"bmwsales/internal/errors"
	"bmwsales/internal/infrastructure"
	"bmwsales/pkg/contracts/domain"
)

// Records converts a (cleaned) table into typed sales records. Rows with
// unparseable numeric cells are skipped with a warning; the table is
// expected to be clean, so a skip here points at an upstream bug rather
// than dirty data.
func Records(ctx context.Context, table *Table) ([]domain.SalesRecord, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	if err := CheckRequiredColumns(table); err != nil {
		return nil, err
	}

	idx := func(name string) int { return table.ColumnIndex(name) }
	modelIdx := idx(ColModel)
	yearIdx := idx(ColYear)
	monthIdx := idx(ColMonth)
	regionIdx := idx(ColRegion)
	colorIdx := idx(ColColor)
	fuelIdx := idx(ColFuelType)
	transIdx := idx(ColTransmission)
	engineIdx := idx(ColEngineSizeL)
	mileageIdx := idx(ColMileageKM)
	priceIdx := idx(ColPriceUSD)
	volumeIdx := idx(ColSalesVolume)

	records := make([]domain.SalesRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		year, err1 := ParseIntCell(row[yearIdx])
		engine, err2 := strconv.ParseFloat(row[engineIdx], 64)
		mileage, err3 := strconv.ParseFloat(row[mileageIdx], 64)
		price, err4 := strconv.ParseFloat(row[priceIdx], 64)
		volume, err5 := strconv.ParseFloat(row[volumeIdx], 64)

		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			logger.WarnContext(ctx, "skipping row with unparseable numeric cell",
				slog.Int("row", i))
			continue
		}

		record := domain.SalesRecord{
			Model:       row[modelIdx],
			Year:        year,
			Region:      row[regionIdx],
			FuelType:    row[fuelIdx],
			EngineSizeL: engine,
			MileageKM:   mileage,
			PriceUSD:    price,
			SalesVolume: volume,
		}

		if monthIdx >= 0 && row[monthIdx] != "" {
			if month, err := ParseIntCell(row[monthIdx]); err == nil {
				record.Month = month
			}
		}
		if colorIdx >= 0 {
			record.Color = row[colorIdx]
		}
		if transIdx >= 0 {
			record.Transmission = row[transIdx]
		}

		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, errors.NewValidationError("no usable rows after conversion")
	}

	return records, nil
}
