// Package labcalc holds the arithmetic used by the lab forms: position
// averages and the MIN/MEAN, moisture-change and thickness-swelling ratios.
package labcalc

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number converts a form value (JSON number, numeric string, json.Number)
// into a float. Blank, nil and non-numeric values report ok=false.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		// lab sheets are filled in with either decimal separator
		s = strings.Replace(s, ",", ".", 1)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Ptr is Number returning nil for missing values.
func Ptr(v any) *float64 {
	f, ok := Number(v)
	if !ok {
		return nil
	}
	return &f
}

// Mean sums the values treating missing ones as zero and divides by
// len(values). A missing position therefore pulls the mean toward zero.
// An empty slice yields 0.
func Mean(values []any) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		f, _ := Number(v)
		sum += f
	}
	return sum / float64(len(values))
}

// PositionMean averages flat["<prefix>_<pos>"] over every position.
func PositionMean(flat map[string]any, prefix string, positions []string) float64 {
	values := make([]any, len(positions))
	for i, pos := range positions {
		values[i] = flat[prefix+"_"+pos]
	}
	return Mean(values)
}

// MinMeanRatio returns min / mean * 100.
func MinMeanRatio(min, mean *float64) *float64 {
	if min == nil || mean == nil || *mean == 0 {
		return nil
	}
	r := *min / *mean * 100
	return &r
}

// MoistureContent returns (w1 - w2) / w2 * 100.
func MoistureContent(w1, w2 *float64) *float64 {
	if w1 == nil || w2 == nil || *w2 == 0 {
		return nil
	}
	r := (*w1 - *w2) / *w2 * 100
	return &r
}

// ThicknessSwelling returns (t2 - t1) / t1 * 100.
func ThicknessSwelling(t1, t2 *float64) *float64 {
	if t1 == nil || t2 == nil || *t1 == 0 {
		return nil
	}
	r := (*t2 - *t1) / *t1 * 100
	return &r
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// RoundPtr is Round for optional values.
func RoundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := Round(*v, places)
	return &r
}
