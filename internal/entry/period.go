package entry

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/income-expense-tracker/internal"
)

// PeriodSeparator joins year and month in a period key, e.g. "2024_November".
const PeriodSeparator = "_"

type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// ParsePeriod reads a "<year>_<month-name>" key. Month names are matched without
// regard to case and returned in canonical form.
func ParsePeriod(key string) (Period, error) {
	parts := strings.Split(key, PeriodSeparator)
	if len(parts) != 2 {
		return Period{}, invalidPeriod(key, "expected <year>_<month>")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year <= 0 {
		return Period{}, invalidPeriod(key, fmt.Sprintf("year %q is not a positive integer", parts[0]))
	}

	month, ok := ParseMonth(parts[1])
	if !ok {
		return Period{}, invalidPeriod(key, fmt.Sprintf("unknown month %q", parts[1]))
	}

	return Period{Year: year, Month: month}, nil
}

func (p Period) Key() string {
	return fmt.Sprintf("%d%s%s", p.Year, PeriodSeparator, p.Month.String())
}

func (p Period) String() string {
	return p.Key()
}

func (p Period) MonthName() string {
	return p.Month.String()
}

// Before reports whether p is chronologically earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// MonthNames lists the twelve calendar month names in order.
func MonthNames() []string {
	names := make([]string, 12)
	for m := time.January; m <= time.December; m++ {
		names[m-1] = m.String()
	}
	return names
}

func ParseMonth(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(name, m.String()) {
			return m, true
		}
	}
	return 0, false
}

func invalidPeriod(key, reason string) error {
	return internal.ErrInvalidPeriod.
		WithCause(fmt.Errorf("period %q: %s", key, reason)).
		WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
			{Field: "period", Message: reason, Code: string(internal.ErrCodeInvalidPeriod)},
		}})
}
