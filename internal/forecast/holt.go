package forecast

import (
	"bmwsales/internal/errors"
)

// minPoints is the smallest series Holt smoothing can be fit on: one
// point for the initial level and one for the initial trend, plus at
// least one smoothing step.
const minPoints = 3

// Holt is a double exponential smoother (level + trend). Alpha weighs
// the level update, Beta the trend update; both must be in (0, 1].
type Holt struct {
	Alpha float64
	Beta  float64
}

// NewHolt validates the smoothing factors and returns a smoother.
func NewHolt(alpha, beta float64) (*Holt, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, errors.NewValidationError("alpha must be in (0, 1]")
	}
	if beta <= 0 || beta > 1 {
		return nil, errors.NewValidationError("beta must be in (0, 1]")
	}
	return &Holt{Alpha: alpha, Beta: beta}, nil
}

// Fit runs the smoother over the series and forecasts horizon steps
// ahead. The series must have at least three points.
func (h *Holt) Fit(series []float64, horizon int) ([]float64, error) {
	if len(series) < minPoints {
		return nil, errors.NewValidationError("series too short for forecasting").
			WithContext("points", len(series)).
			WithContext("required", minPoints)
	}
	if horizon < 1 {
		return nil, errors.NewValidationError("horizon must be at least 1")
	}

	level := series[0]
	trend := series[1] - series[0]

	for _, y := range series[1:] {
		prevLevel := level
		level = h.Alpha*y + (1-h.Alpha)*(prevLevel+trend)
		trend = h.Beta*(level-prevLevel) + (1-h.Beta)*trend
	}

	out := make([]float64, horizon)
	for i := range out {
		out[i] = level + float64(i+1)*trend
	}
	return out, nil
}
