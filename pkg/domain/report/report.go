package report

import (
	"strings"
	"time"

	"github.com/feinledger/fein/pkg/domain"
)

// DateLayout is the calendar-date format accepted by date range reports.
const DateLayout = "2006-01-02"

// DateRange is a half-open UTC interval covering whole calendar days.
type DateRange struct {
	From  time.Time
	Until time.Time
}

// ParseDateRange turns two inclusive calendar dates into a DateRange.
// Any time component is dropped; the end day is included in full.
func ParseDateRange(start, end string) (DateRange, error) {
	from, err := parseDay(start)
	if err != nil {
		return DateRange{}, domain.Validationf("invalid start date %q, expected YYYY-MM-DD", start)
	}
	last, err := parseDay(end)
	if err != nil {
		return DateRange{}, domain.Validationf("invalid end date %q, expected YYYY-MM-DD", end)
	}
	if from.After(last) {
		return DateRange{}, domain.Validationf("start date %s is after end date %s", start, end)
	}
	return DateRange{From: from, Until: last.AddDate(0, 0, 1)}, nil
}

// Start returns the first day of the range formatted as a calendar date.
func (r DateRange) Start() string {
	return r.From.Format(DateLayout)
}

// End returns the last day of the range formatted as a calendar date.
func (r DateRange) End() string {
	return r.Until.AddDate(0, 0, -1).Format(DateLayout)
}

func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		// accept full timestamps and keep the calendar day
		s = s[:len(DateLayout)]
	}
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
