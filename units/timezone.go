package units

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimestamp is returned when the input is not an ISO-8601 local
// timestamp.
var ErrInvalidTimestamp = errors.New("units: invalid timestamp")

// ErrUnknownTimezone is returned for a timezone name absent from the IANA
// database.
var ErrUnknownTimezone = errors.New("units: unknown timezone")

// Accepted local timestamp layouts, most specific first.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ConvertTime interprets an ISO-8601 local timestamp in the source IANA
// zone and re-renders it in the target zone. The result keeps RFC 3339
// formatting with the target zone's offset.
func ConvertTime(value, fromZone, toZone string) (string, error) {
	src, err := time.LoadLocation(fromZone)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownTimezone, fromZone)
	}
	dst, err := time.LoadLocation(toZone)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownTimezone, toZone)
	}

	var t time.Time
	parsed := false
	for _, layout := range timestampLayouts {
		if t, err = time.ParseInLocation(layout, value, src); err == nil {
			parsed = true
			break
		}
	}
	if !parsed {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
	}

	return t.In(dst).Format("2006-01-02T15:04:05-07:00"), nil
}
