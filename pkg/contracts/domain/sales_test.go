package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGreenFuel(t *testing.T) {
	tests := []struct {
		fuel string
		want bool
	}{
		{FuelElectric, true},
		{FuelHybrid, true},
		{FuelPluginHybrid, true},
		{"PHEV", true},
		{" electric ", true},
		{FuelPetrol, false},
		{FuelDiesel, false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.fuel, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGreenFuel(tt.fuel))
		})
	}
}

func TestSalesRecord_IsValid(t *testing.T) {
	valid := SalesRecord{Model: "X3", Year: 2020, Region: "Europe", PriceUSD: 50_000, SalesVolume: 100}
	assert.True(t, valid.IsValid())

	tests := []struct {
		name   string
		mutate func(*SalesRecord)
	}{
		{"zero price", func(r *SalesRecord) { r.PriceUSD = 0 }},
		{"negative volume", func(r *SalesRecord) { r.SalesVolume = -1 }},
		{"year before range", func(r *SalesRecord) { r.Year = 2009 }},
		{"year after range", func(r *SalesRecord) { r.Year = 2025 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			assert.False(t, r.IsValid())
		})
	}
}
