// Package units converts scalar values across measurement domains: the
// linear domains (length, weight, volume, ...) share a single base-unit
// engine, while temperature, color, currency, and timezone conversions get
// dedicated implementations.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidValue is returned when the input value is not numeric or not in
// the shape the domain expects.
var ErrInvalidValue = errors.New("units: invalid value")

// ErrUnknownUnit is returned when a unit symbol is not part of the domain's
// table.
var ErrUnknownUnit = errors.New("units: unknown unit")

// ErrUnknownDomain is returned for a conversion domain that does not exist.
var ErrUnknownDomain = errors.New("units: unknown domain")

// factors maps each linear domain to its base-unit factor table. A value in
// unit u equals value*factors[domain][u] base units, so
//
//	result = value * factors[from] / factors[to]
//
// Base units: length m, weight g, volume l, speed m/s, pressure Pa, power W,
// energy J, frequency Hz, angle rad, data_transfer bit/s, filesize byte
// (1024-based), voltage V, current A, resistance ohm, area m².
var factors = map[string]map[string]float64{
	"length": {
		"km": 1000, "m": 1, "cm": 0.01, "mm": 0.001,
		"mi": 1609.344, "yd": 0.9144, "ft": 0.3048, "in": 0.0254,
	},
	"weight": {
		"kg": 1000, "g": 1, "mg": 0.001,
		"lb": 453.59237, "oz": 28.349523125, "t": 1e6,
	},
	"volume": {
		"l": 1, "ml": 0.001, "gal": 3.78541, "qt": 0.946353,
		"pt": 0.473176, "cup": 0.236588, "fl_oz": 0.0295735,
		"m3": 1000, "cm3": 0.001,
	},
	"speed": {
		"mps": 1, "kph": 0.277778, "mph": 0.44704,
		"knot": 0.514444, "fps": 0.3048,
	},
	"pressure": {
		"pa": 1, "kpa": 1000, "mpa": 1e6, "bar": 100000,
		"psi": 6894.76, "atm": 101325, "mmhg": 133.322, "inhg": 3386.39,
	},
	"power": {
		"w": 1, "kw": 1000, "mw": 1e6, "hp": 745.7,
		"btu_h": 0.29307107, "ft_lb_s": 1.355818,
	},
	"energy": {
		"joules": 1, "kilojoules": 1000, "calories": 4.184,
		"kilocalories": 4184, "watt_hours": 3600, "kilowatt_hours": 3.6e6,
		"electron_volts": 1.602176634e-19, "british_thermal_units": 1055.06,
		"foot_pounds": 1.355818,
	},
	"angle": {
		"radians": 1, "degrees": math.Pi / 180, "gradians": math.Pi / 200,
		"turns": 2 * math.Pi, "minutes": math.Pi / (180 * 60),
		"seconds": math.Pi / (180 * 3600),
	},
	"frequency": {
		"hz": 1, "khz": 1000, "mhz": 1e6, "ghz": 1e9, "rpm": 1.0 / 60,
	},
	"data_transfer": {
		"bps": 1, "kbps": 1000, "mbps": 1e6, "gbps": 1e9,
		"b/s": 8, "kb/s": 8000, "mb/s": 8e6, "gb/s": 8e9,
	},
	"filesize": {
		"b": 1, "kb": 1 << 10, "mb": 1 << 20, "gb": 1 << 30,
		"tb": 1 << 40, "pb": 1 << 50,
	},
	"voltage": {
		"v": 1, "kv": 1000, "mv": 0.001,
	},
	"current": {
		"a": 1, "ka": 1000, "ma": 0.001,
	},
	"resistance": {
		"ohm": 1, "kohm": 1000, "mohm": 1e6,
	},
	"area": {
		"m2": 1, "cm2": 0.0001, "km2": 1e6, "ha": 10000,
		"acre": 4046.86, "ft2": 0.092903, "in2": 0.00064516, "yd2": 0.836127,
	},
}

// LinearDomains returns the names of all table-driven domains.
func LinearDomains() []string {
	out := make([]string, 0, len(factors))
	for d := range factors {
		out = append(out, d)
	}
	return out
}

// IsLinearDomain reports whether domain is handled by the base-unit engine.
func IsLinearDomain(domain string) bool {
	_, ok := factors[domain]
	return ok
}

// Convert converts value between two units of a linear domain. Unit symbols
// are case-insensitive.
func Convert(domain string, value float64, from, to string) (float64, error) {
	table, ok := factors[domain]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}
	ff, ok := table[strings.ToLower(from)]
	if !ok {
		return 0, fmt.Errorf("%w: %q in domain %s", ErrUnknownUnit, from, domain)
	}
	ft, ok := table[strings.ToLower(to)]
	if !ok {
		return 0, fmt.Errorf("%w: %q in domain %s", ErrUnknownUnit, to, domain)
	}
	// Equal factors must return the value untouched: ff/ft rounds for
	// non-dyadic factors like mi or yd2, breaking x→x conversions.
	if ff == ft {
		return value, nil
	}
	return value * ff / ft, nil
}

// ParseValue parses the numeric payload of a conversion request. JSON
// clients send numbers and strings interchangeably, so both are accepted.
func ParseValue(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidValue, x)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("%w: missing", ErrInvalidValue)
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidValue, v)
	}
}
