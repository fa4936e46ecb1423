package parsing

import (
	"strings"
	"time"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// systemTimeSource provides the current wall-clock time
type systemTimeSource struct{}

func (systemTimeSource) Now() time.Time {
	return time.Now()
}

var dateSeparators = strings.NewReplacer("年", "-", "月", "-", "/", "-")

// DateExtractor finds a calendar date embedded in raw OCR text and
// normalizes it to YYYY-MM-DD.
type DateExtractor struct {
	timeSource TimeSource
}

// NewDateExtractor creates a DateExtractor backed by the system clock
func NewDateExtractor() *DateExtractor {
	return &DateExtractor{timeSource: systemTimeSource{}}
}

// NewDateExtractorWithTimeSource creates a DateExtractor with a custom time source for testing
func NewDateExtractorWithTimeSource(ts TimeSource) *DateExtractor {
	return &DateExtractor{timeSource: ts}
}

// Extract scans text line by line and returns the first date-like substring
// that survives strict calendar validation, normalized to YYYY-MM-DD. When no
// line yields a valid date it falls back to the current processing date; it
// never fails.
func (e *DateExtractor) Extract(text string) string {
	return e.fromDateLines(ClassifyLines(text).DateLines)
}

func (e *DateExtractor) fromDateLines(lines []string) string {
	for _, line := range lines {
		match := datePattern.FindString(line)
		if match == "" {
			continue
		}
		if date, ok := normalizeDate(match); ok {
			return date
		}
	}
	return e.timeSource.Now().Format("2006-01-02")
}

// normalizeDate rewrites the matched separators to "-" and re-parses the
// result strictly, so "2024年2月30日" style impossible dates are rejected
// rather than stored.
func normalizeDate(match string) (string, bool) {
	t, err := time.Parse("2006-1-2", dateSeparators.Replace(match))
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
