package forecast

import (
	"bmwsales/internal/errors"
)

// HoltWinters extends Holt smoothing with an additive seasonal
// component of the given period (12 for monthly data). Gamma weighs the
// seasonal update.
type HoltWinters struct {
	Alpha  float64
	Beta   float64
	Gamma  float64
	Period int
}

// NewHoltWinters validates the smoothing factors and seasonal period.
func NewHoltWinters(alpha, beta, gamma float64, period int) (*HoltWinters, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, errors.NewValidationError("alpha must be in (0, 1]")
	}
	if beta <= 0 || beta > 1 {
		return nil, errors.NewValidationError("beta must be in (0, 1]")
	}
	if gamma < 0 || gamma > 1 {
		return nil, errors.NewValidationError("gamma must be in [0, 1]")
	}
	if period < 2 {
		return nil, errors.NewValidationError("seasonal period must be at least 2")
	}
	return &HoltWinters{Alpha: alpha, Beta: beta, Gamma: gamma, Period: period}, nil
}

// Fit runs additive Holt-Winters over the series and forecasts horizon
// steps ahead. The series needs at least two full seasons.
func (hw *HoltWinters) Fit(series []float64, horizon int) ([]float64, error) {
	if len(series) < 2*hw.Period {
		return nil, errors.NewValidationError("series needs two full seasons").
			WithContext("points", len(series)).
			WithContext("required", 2*hw.Period)
	}
	if horizon < 1 {
		return nil, errors.NewValidationError("horizon must be at least 1")
	}

	p := hw.Period

	firstMean := mean(series[:p])
	secondMean := mean(series[p : 2*p])

	level := firstMean
	trend := (secondMean - firstMean) / float64(p)
	seasonal := make([]float64, p)
	for i := 0; i < p; i++ {
		seasonal[i] = series[i] - firstMean
	}

	for t := p; t < len(series); t++ {
		prevLevel := level
		s := seasonal[t%p]
		level = hw.Alpha*(series[t]-s) + (1-hw.Alpha)*(prevLevel+trend)
		trend = hw.Beta*(level-prevLevel) + (1-hw.Beta)*trend
		seasonal[t%p] = hw.Gamma*(series[t]-level) + (1-hw.Gamma)*s
	}

	out := make([]float64, horizon)
	for m := 1; m <= horizon; m++ {
		out[m-1] = level + float64(m)*trend + seasonal[(len(series)+m-1)%p]
	}
	return out, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
