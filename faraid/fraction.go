package faraid

import (
	"fmt"
	"math"
)

// fractionTolerance bounds the error accepted when converting a decimal back
// to a fraction.
const fractionTolerance = 1e-9

// commonFractions short-circuits the Quranic shares so callers see the
// canonical form ("1/3") instead of a continued-fraction artefact
// ("333333333/1000000000").
var commonFractions = []struct {
	value float64
	text  string
}{
	{1.0 / 2, "1/2"},
	{1.0 / 3, "1/3"},
	{2.0 / 3, "2/3"},
	{1.0 / 4, "1/4"},
	{1.0 / 8, "1/8"},
	{1.0 / 6, "1/6"},
	{3.0 / 4, "3/4"},
}

// FormatFraction renders value as the simplest fraction "p/q" within
// fractionTolerance. Zero renders as "0".
func FormatFraction(value float64) string {
	if value == 0 {
		return "0"
	}
	for _, f := range commonFractions {
		if math.Abs(value-f.value) <= fractionTolerance {
			return f.text
		}
	}
	p, q := simplestFraction(math.Abs(value))
	if value < 0 {
		p = -p
	}
	return fmt.Sprintf("%d/%d", p, q)
}

// FormatShare renders value as "<fraction> (<percentage>%)" with the
// percentage shown to one decimal place.
func FormatShare(value float64) string {
	return fmt.Sprintf("%s (%.1f%%)", FormatFraction(value), value*100)
}

// simplestFraction expands value as a continued fraction, stopping at the
// first convergent within fractionTolerance.
func simplestFraction(value float64) (int64, int64) {
	var (
		p0, q0 int64 = 0, 1
		p1, q1 int64 = 1, 0
		x            = value
	)
	for i := 0; i < 64; i++ {
		a := int64(math.Floor(x))
		p0, p1 = p1, a*p1+p0
		q0, q1 = q1, a*q1+q0
		if q1 != 0 && math.Abs(value-float64(p1)/float64(q1)) <= fractionTolerance {
			break
		}
		frac := x - float64(a)
		if frac <= fractionTolerance {
			break
		}
		x = 1 / frac
	}
	return p1, q1
}
