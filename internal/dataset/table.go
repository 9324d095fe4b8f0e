package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is an in-memory column-delimited table. Cells are kept as raw
// strings so cleaning can distinguish missing values from zeroes; the empty
// string marks a missing cell.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Canonical column names for the sales dataset
const (
	ColModel        = "Model"
	ColYear         = "Year"
	ColMonth        = "Month"
	ColRegion       = "Region"
	ColColor        = "Color"
	ColFuelType     = "Fuel_Type"
	ColTransmission = "Transmission"
	ColEngineSizeL  = "Engine_Size_L"
	ColMileageKM    = "Mileage_KM"
	ColPriceUSD     = "Price_USD"
	ColSalesVolume  = "Sales_Volume"
)

// RequiredColumns are the columns the raw dataset must carry.
// Month is intentionally absent: it is optional in the source data.
var RequiredColumns = []string{
	ColModel, ColYear, ColRegion, ColFuelType,
	ColEngineSizeL, ColMileageKM, ColPriceUSD, ColSalesVolume,
}

// NumericColumns are the columns cleaned with median imputation; all other
// known columns are categorical and cleaned with mode imputation.
var NumericColumns = map[string]bool{
	ColYear:        true,
	ColMonth:       true,
	ColEngineSizeL: true,
	ColMileageKM:   true,
	ColPriceUSD:    true,
	ColSalesVolume: true,
}

// columnAliases maps normalized header spellings to canonical column names
var columnAliases = map[string]string{
	"model":        ColModel,
	"year":         ColYear,
	"month":        ColMonth,
	"region":       ColRegion,
	"color":        ColColor,
	"fueltype":     ColFuelType,
	"fuel":         ColFuelType,
	"transmission": ColTransmission,
	"enginesizel":  ColEngineSizeL,
	"enginesize":   ColEngineSizeL,
	"mileagekm":    ColMileageKM,
	"mileage":      ColMileageKM,
	"priceusd":     ColPriceUSD,
	"price":        ColPriceUSD,
	"salesvolume":  ColSalesVolume,
	"volume":       ColSalesVolume,
}

// CanonicalColumn maps a raw header name onto its canonical column name.
// Unknown headers are kept verbatim so ancillary columns survive round-trips.
func CanonicalColumn(header string) string {
	key := strings.ToLower(header)
	key = strings.NewReplacer(" ", "", "_", "", "-", "", "(", "", ")", "").Replace(key)
	if canonical, ok := columnAliases[key]; ok {
		return canonical
	}
	return strings.TrimSpace(header)
}

// ColumnIndex returns the index of a column, or -1 when absent
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table carries the named column
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the value at (row, column name); empty string when the
// column is absent.
func (t *Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][idx]
}

// ParseIntCell parses an integer cell, tolerating float-formatted
// integers ("2020.0") as some exports write whole-number columns that
// way. Fractional values are rejected.
func ParseIntCell(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer value: %s", s)
	}
	return int(f), nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	clone := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		clone.Rows[i] = append([]string(nil), row...)
	}
	return clone
}
