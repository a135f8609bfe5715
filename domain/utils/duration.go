package utils

import (
	"regexp"
	"strconv"
	"time"

	"nexus/domain"
)

var durationPattern = regexp.MustCompile(`^(\d+)([dhm])$`)

// ParseDuration parses a moderation duration of the form <n><d|h|m>, e.g. 30m, 12h, 7d
func ParseDuration(input string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(input)
	if matches == nil {
		return 0, domain.NewValidationError("duration", "use a number followed by d, h or m (e.g. 30m, 12h, 7d)")
	}

	n, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.NewValidationError("duration", "duration must be a positive number")
	}

	var unit time.Duration
	switch matches[2] {
	case "d":
		unit = 24 * time.Hour
	case "h":
		unit = time.Hour
	case "m":
		unit = time.Minute
	}

	// Keep well inside time.Duration's range
	if n > int64(365*24*time.Hour/unit) {
		return 0, domain.NewValidationError("duration", "duration cannot exceed one year")
	}

	return time.Duration(n) * unit, nil
}
