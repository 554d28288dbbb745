package units

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= 1e-9*scale
}

func TestConvert_LinearDomains(t *testing.T) {
	tests := []struct {
		domain string
		value  float64
		from   string
		to     string
		want   float64
	}{
		{"length", 1, "km", "m", 1000},
		{"length", 1, "mi", "km", 1.609344},
		{"length", 12, "in", "ft", 1},
		{"weight", 1, "kg", "g", 1000},
		{"weight", 1, "lb", "g", 453.59237},
		{"weight", 16, "oz", "lb", 16 * 28.349523125 / 453.59237},
		{"volume", 1, "gal", "l", 3.78541},
		{"volume", 1, "m3", "l", 1000},
		{"speed", 100, "kph", "mps", 27.7778},
		{"pressure", 1, "atm", "pa", 101325},
		{"power", 1, "hp", "w", 745.7},
		{"energy", 1, "kilocalories", "joules", 4184},
		{"energy", 1, "kilowatt_hours", "joules", 3.6e6},
		{"frequency", 60, "rpm", "hz", 1},
		{"angle", 180, "degrees", "radians", math.Pi},
		{"angle", 1, "turns", "degrees", 360},
		{"data_transfer", 1, "B/s", "bps", 8},
		{"data_transfer", 1000, "kbps", "mbps", 1},
		{"filesize", 1, "gb", "mb", 1024},
		{"voltage", 1, "kv", "v", 1000},
		{"current", 500, "ma", "a", 0.5},
		{"resistance", 1, "mohm", "kohm", 1000},
		{"area", 1, "ha", "m2", 10000},
	}
	for _, tt := range tests {
		got, err := Convert(tt.domain, tt.value, tt.from, tt.to)
		if err != nil {
			t.Errorf("Convert(%s, %v, %s, %s): %v", tt.domain, tt.value, tt.from, tt.to, err)
			continue
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("Convert(%s, %v, %s, %s) = %v, want %v", tt.domain, tt.value, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConvert_Identity(t *testing.T) {
	// Converting a value to its own unit returns it unchanged.
	for _, domain := range LinearDomains() {
		table := factors[domain]
		for unit := range table {
			got, err := Convert(domain, 42.5, unit, unit)
			if err != nil {
				t.Fatalf("%s/%s: %v", domain, unit, err)
			}
			if got != 42.5 {
				t.Errorf("%s: identity %s→%s = %v, want 42.5", domain, unit, unit, got)
			}
		}
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	// a→b→a recovers the original value within float tolerance.
	pairs := []struct{ domain, a, b string }{
		{"length", "mi", "mm"},
		{"weight", "lb", "mg"},
		{"volume", "fl_oz", "m3"},
		{"pressure", "psi", "mmhg"},
		{"angle", "seconds", "turns"},
		{"filesize", "pb", "b"},
	}
	for _, p := range pairs {
		there, err := Convert(p.domain, 123.456, p.a, p.b)
		if err != nil {
			t.Fatal(err)
		}
		back, err := Convert(p.domain, there, p.b, p.a)
		if err != nil {
			t.Fatal(err)
		}
		if !almostEqual(back, 123.456) {
			t.Errorf("%s: %s→%s→%s = %v, want 123.456", p.domain, p.a, p.b, p.a, back)
		}
	}
}

func TestConvert_Errors(t *testing.T) {
	if _, err := Convert("length", 1, "furlong", "m"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("unknown from unit: got %v", err)
	}
	if _, err := Convert("length", 1, "m", "parsec"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("unknown to unit: got %v", err)
	}
	if _, err := Convert("vibes", 1, "a", "b"); !errors.Is(err, ErrUnknownDomain) {
		t.Errorf("unknown domain: got %v", err)
	}
}

func TestConvert_CaseInsensitive(t *testing.T) {
	got, err := Convert("length", 1, "KM", "M")
	if err != nil {
		t.Fatal(err)
	}
	if got != 1000 {
		t.Errorf("KM→M = %v, want 1000", got)
	}
}

func TestParseValue(t *testing.T) {
	if v, err := ParseValue(3.5); err != nil || v != 3.5 {
		t.Errorf("ParseValue(3.5) = %v, %v", v, err)
	}
	if v, err := ParseValue("  2.25 "); err != nil || v != 2.25 {
		t.Errorf("ParseValue string = %v, %v", v, err)
	}
	for _, bad := range []any{"abc", nil, true, []int{1}} {
		if _, err := ParseValue(bad); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("ParseValue(%v): want ErrInvalidValue, got %v", bad, err)
		}
	}
}

func TestConvertTemperature(t *testing.T) {
	tests := []struct {
		value    float64
		from, to string
		want     float64
	}{
		{0, "c", "f", 32},
		{100, "c", "f", 212},
		{0, "c", "k", 273.15},
		{32, "f", "c", 0},
		{212, "F", "C", 100},
		{273.15, "k", "c", 0},
		{-40, "c", "f", -40},
		{20, "c", "c", 20},
	}
	for _, tt := range tests {
		got, err := ConvertTemperature(tt.value, tt.from, tt.to)
		if err != nil {
			t.Errorf("ConvertTemperature(%v, %s, %s): %v", tt.value, tt.from, tt.to, err)
			continue
		}
		if !almostEqual(got, tt.want) && math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ConvertTemperature(%v, %s, %s) = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
		}
	}

	if _, err := ConvertTemperature(0, "r", "c"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("rankine: want ErrUnknownUnit, got %v", err)
	}
}
