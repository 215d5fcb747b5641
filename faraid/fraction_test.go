package faraid

import (
	"fmt"
	"math"
	"testing"
)

func TestFormatFraction_CommonShares(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.0 / 2, "1/2"},
		{1.0 / 3, "1/3"},
		{2.0 / 3, "2/3"},
		{1.0 / 4, "1/4"},
		{1.0 / 8, "1/8"},
		{1.0 / 6, "1/6"},
		{3.0 / 4, "3/4"},
	}
	for _, c := range cases {
		if got := FormatFraction(c.in); got != c.want {
			t.Errorf("FormatFraction(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatFraction_RoundTrip(t *testing.T) {
	values := []float64{
		1, 0.4, 0.2, 0.05, 0.999,
		3.0 / 7, 5.0 / 24, 7.0 / 12, 11.0 / 13, 2.0 / 15,
	}
	for _, v := range values {
		text := FormatFraction(v)

		var p, q int64
		if _, err := fmt.Sscanf(text, "%d/%d", &p, &q); err != nil {
			t.Fatalf("FormatFraction(%v) = %q, not parseable as p/q: %v", v, text, err)
		}
		if q == 0 {
			t.Fatalf("FormatFraction(%v) = %q has zero denominator", v, text)
		}
		if got := float64(p) / float64(q); math.Abs(got-v) > 1e-9 {
			t.Errorf("FormatFraction(%v) = %q evaluates to %v, outside tolerance", v, text, got)
		}
	}
}

func TestFormatShare(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1.0 / 4, "1/4 (25.0%)"},
		{1.0 / 6, "1/6 (16.7%)"},
		{1.0 / 2, "1/2 (50.0%)"},
	}
	for _, c := range cases {
		if got := FormatShare(c.in); got != c.want {
			t.Errorf("FormatShare(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
