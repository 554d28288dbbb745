package units

import (
	"fmt"
	"strings"
)

// ConvertTemperature converts between Celsius, Fahrenheit, and Kelvin.
// Temperature scales are affine, not linear, so they bypass the factor
// engine: the value pivots through Celsius.
func ConvertTemperature(value float64, from, to string) (float64, error) {
	var celsius float64
	switch strings.ToLower(from) {
	case "c":
		celsius = value
	case "f":
		celsius = (value - 32) * 5 / 9
	case "k":
		celsius = value - 273.15
	default:
		return 0, fmt.Errorf("%w: %q in domain temperature", ErrUnknownUnit, from)
	}

	switch strings.ToLower(to) {
	case "c":
		return celsius, nil
	case "f":
		return celsius*9/5 + 32, nil
	case "k":
		return celsius + 273.15, nil
	default:
		return 0, fmt.Errorf("%w: %q in domain temperature", ErrUnknownUnit, to)
	}
}
