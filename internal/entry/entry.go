package entry

import (
	"fmt"
	"math"
	"time"

	"github.com/frahmantamala/income-expense-tracker/internal"
	entryDatamodel "github.com/frahmantamala/income-expense-tracker/internal/core/datamodel/entry"
)

// NoDataMessage is reported by a summary whose entry lacks income or expense amounts.
const NoDataMessage = "No data available for this period."

// Entry is one month's recorded income and expenses.
type Entry struct {
	ID        int64            `json:"id,omitempty"`
	Month     string           `json:"month"`
	Year      int              `json:"year"`
	Income    map[string]int64 `json:"income"`
	Expenses  map[string]int64 `json:"expenses"`
	Comment   string           `json:"comment"`
	Found     bool             `json:"found"`
	CreatedAt *time.Time       `json:"created_at,omitempty"`
}

// EmptyEntry is the result of loading a period nothing was saved for.
func EmptyEntry(p Period) *Entry {
	return &Entry{
		Month:    p.MonthName(),
		Year:     p.Year,
		Income:   map[string]int64{},
		Expenses: map[string]int64{},
		Comment:  "",
	}
}

func (e *Entry) Period() (Period, bool) {
	m, ok := ParseMonth(e.Month)
	if !ok {
		return Period{}, false
	}
	return Period{Year: e.Year, Month: m}, true
}

// HasData reports whether both amount maps are non-empty. A period whose categories
// were all entered as zero still has data.
func (e *Entry) HasData() bool {
	return len(e.Income) > 0 && len(e.Expenses) > 0
}

// Totals sums both amount maps. Rows written outside the application are not bounded
// by MaxAmount, so an overflowing sum is reported instead of wrapping.
func (e *Entry) Totals() (income, expense int64, err error) {
	if income, err = Sum(e.Income); err != nil {
		return 0, 0, err
	}
	if expense, err = Sum(e.Expenses); err != nil {
		return 0, 0, err
	}
	return income, expense, nil
}

// Sum adds the amounts, failing with ErrAmountOverflow when the total leaves the int64 range.
func Sum(amounts map[string]int64) (int64, error) {
	var total int64
	for name, v := range amounts {
		if (v > 0 && total > math.MaxInt64-v) || (v < 0 && total < math.MinInt64-v) {
			return 0, internal.ErrAmountOverflow.WithCause(fmt.Errorf("adding %s=%d to %d", name, v, total))
		}
		total += v
	}
	return total, nil
}

// Figures are the aggregates shown for a period with data.
type Figures struct {
	TotalIncome     int64            `json:"total_income"`
	TotalExpense    int64            `json:"total_expense"`
	RemainingBudget int64            `json:"remaining_budget"`
	Income          map[string]int64 `json:"income"`
	Expenses        map[string]int64 `json:"expenses"`
	Comment         string           `json:"comment"`
}

type Summary struct {
	Period   string   `json:"period"`
	Currency string   `json:"currency"`
	HasData  bool     `json:"has_data"`
	Message  string   `json:"message,omitempty"`
	Figures  *Figures `json:"figures,omitempty"`
}

// Summarize computes the period figures. Nothing is summed when either map is empty.
func Summarize(p Period, e *Entry, currency string) (*Summary, error) {
	s := &Summary{
		Period:   p.Key(),
		Currency: currency,
	}
	if e == nil || !e.HasData() {
		s.Message = NoDataMessage
		return s, nil
	}

	totalIncome, totalExpense, err := e.Totals()
	if err != nil {
		return nil, err
	}
	if (totalExpense < 0 && totalIncome > math.MaxInt64+totalExpense) ||
		(totalExpense > 0 && totalIncome < math.MinInt64+totalExpense) {
		return nil, internal.ErrAmountOverflow.WithCause(fmt.Errorf("remaining budget of %d - %d", totalIncome, totalExpense))
	}

	s.HasData = true
	s.Figures = &Figures{
		TotalIncome:     totalIncome,
		TotalExpense:    totalExpense,
		RemainingBudget: totalIncome - totalExpense,
		Income:          e.Income,
		Expenses:        e.Expenses,
		Comment:         e.Comment,
	}
	return s, nil
}

// FormatAmount renders an amount with the cosmetic currency label, e.g. "33000 KSH".
func FormatAmount(amount int64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%d", amount)
	}
	return fmt.Sprintf("%d %s", amount, currency)
}

func ToDataModel(e *Entry) *entryDatamodel.DataEntry {
	return &entryDatamodel.DataEntry{
		ID:       e.ID,
		Month:    e.Month,
		Year:     e.Year,
		Income:   entryDatamodel.Amounts(copyAmounts(e.Income)),
		Expenses: entryDatamodel.Amounts(copyAmounts(e.Expenses)),
		Comment:  e.Comment,
	}
}

func FromDataModel(d *entryDatamodel.DataEntry) *Entry {
	e := &Entry{
		ID:       d.ID,
		Month:    d.Month,
		Year:     d.Year,
		Income:   copyAmounts(d.Income),
		Expenses: copyAmounts(d.Expenses),
		Comment:  d.Comment,
		Found:    true,
	}
	if m, ok := ParseMonth(d.Month); ok {
		e.Month = m.String()
	}
	if !d.CreatedAt.IsZero() {
		createdAt := d.CreatedAt
		e.CreatedAt = &createdAt
	}
	return e
}

func copyAmounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
