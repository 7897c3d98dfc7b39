package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidRange     = errors.New("video range start must be before end")
)

const (
	maxTimestampDigits = 6

	// 99:59:59, the longest value the six-digit input can hold.
	maxTimestampSeconds = 99*3600 + 59*60 + 59
)

// AutoFormatTimestamp reformats digits typed into the timestamp field,
// inserting separators from the right: "123" becomes "1:23" and "12345"
// becomes "1:23:45". Non-digit characters are dropped and at most six digits
// are kept.
func AutoFormatTimestamp(input string) string {
	var digits []byte
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) > maxTimestampDigits {
		digits = digits[:maxTimestampDigits]
	}

	switch n := len(digits); {
	case n <= 2:
		return string(digits)
	case n <= 4:
		return string(digits[:n-2]) + ":" + string(digits[n-2:])
	default:
		return string(digits[:n-4]) + ":" + string(digits[n-4:n-2]) + ":" + string(digits[n-2:])
	}
}

// ParseTimestamp accepts "ss", "m:ss" or "h:mm:ss". Minutes and seconds after
// the first field must be below 60, and the total at most 99:59:59.
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidTimestamp
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	var total int
	for i, p := range parts {
		if p == "" {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
		total = total*60 + v
		if v > maxTimestampSeconds || total > maxTimestampSeconds {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
	}

	return time.Duration(total) * time.Second, nil
}

// FormatTimestamp renders d as "m:ss" or "h:mm:ss", truncated to seconds.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseVideoRange parses both ends of a video segment. Both empty means no
// range.
func ParseVideoRange(start, end string) (*models.VideoRange, error) {
	if strings.TrimSpace(start) == "" && strings.TrimSpace(end) == "" {
		return nil, nil
	}

	s, err := ParseTimestamp(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseTimestamp(end)
	if err != nil {
		return nil, err
	}

	r := &models.VideoRange{Start: s, End: e}
	if err := validateRange(r); err != nil {
		return nil, err
	}
	return r, nil
}

func validateRange(r *models.VideoRange) error {
	if r.Start < 0 || r.End <= r.Start {
		return ErrInvalidRange
	}
	return nil
}
