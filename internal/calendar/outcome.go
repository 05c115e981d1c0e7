package calendar

import (
	"math"
	"strconv"
)

// Outcome classifies a released figure against its forecast.
type Outcome string

const (
	OutcomeBeat Outcome = "beat"
	OutcomeMiss Outcome = "miss"
	OutcomeMet  Outcome = "met"
	// OutcomeUnknown means one of the inputs was not parseable, so no
	// comparison is possible.
	OutcomeUnknown Outcome = ""
)

// CalculateOutcome compares the raw actual and forecast strings. The
// comparison uses a relative epsilon of |forecast| * 0.0001, or a fixed
// 0.0001 when the forecast is exactly zero, to keep float equality
// stable across re-runs.
func CalculateOutcome(actual, forecast string) Outcome {
	actualNum, okA := ParseNumeric(actual)
	forecastNum, okF := ParseNumeric(forecast)
	if !okA || !okF {
		return OutcomeUnknown
	}

	epsilon := math.Abs(forecastNum * 0.0001)
	if forecastNum == 0 {
		epsilon = 0.0001
	}

	switch {
	case actualNum > forecastNum+epsilon:
		return OutcomeBeat
	case actualNum < forecastNum-epsilon:
		return OutcomeMiss
	default:
		return OutcomeMet
	}
}

// CalculateDeviation returns actual-forecast rounded to 4 significant
// digits, and the deviation as a percentage of |forecast| rounded to 2
// decimal places. Either value is nil when it cannot be computed; the
// percentage is additionally nil when the forecast is zero.
func CalculateDeviation(actual, forecast string) (deviation, deviationPct *float64) {
	actualNum, okA := ParseNumeric(actual)
	forecastNum, okF := ParseNumeric(forecast)
	if !okA || !okF {
		return nil, nil
	}

	dev := roundSignificant(actualNum-forecastNum, 4)
	deviation = &dev

	if forecastNum != 0 {
		pct := (actualNum - forecastNum) / math.Abs(forecastNum) * 100
		pct = roundDecimals(pct, 2)
		deviationPct = &pct
	}
	return deviation, deviationPct
}

// roundSignificant rounds to n significant digits by formatting and
// re-parsing, matching the emitted textual precision exactly.
func roundSignificant(v float64, n int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', n, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func roundDecimals(v float64, n int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', n, 64), 64)
	if err != nil {
		return v
	}
	return r
}
