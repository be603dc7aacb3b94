package entry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/income-expense-tracker/internal"
	"github.com/frahmantamala/income-expense-tracker/internal/core/common/validation"
	entryDatamodel "github.com/frahmantamala/income-expense-tracker/internal/core/datamodel/entry"
	"github.com/frahmantamala/income-expense-tracker/internal/core/events"
	"github.com/frahmantamala/income-expense-tracker/pkg/logger"
)

// Repository is the persistence gateway for entries. FindFirstByPeriod returns nil, nil
// when no row matches.
type Repository interface {
	Create(ctx context.Context, entry *entryDatamodel.DataEntry) error
	FindFirstByPeriod(ctx context.Context, month string, year int) (*entryDatamodel.DataEntry, error)
	ReplacePeriod(ctx context.Context, entry *entryDatamodel.DataEntry) error
	ListPeriods(ctx context.Context) ([]entryDatamodel.PeriodRow, error)
}

type CategoryCatalog interface {
	IncomeCategories() []string
	ExpenseCategories() []string
	IsIncomeCategory(name string) bool
	IsExpenseCategory(name string) bool
	Currency() string
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo         Repository
	catalog      CategoryCatalog
	publisher    EventPublisher
	logger       *slog.Logger
	queryTimeout time.Duration
	now          func() time.Time
}

func NewService(repo Repository, catalog CategoryCatalog, publisher EventPublisher, lg *slog.Logger, queryTimeout time.Duration) *Service {
	if lg == nil {
		lg = slog.Default()
	}
	return &Service{
		repo:         repo,
		catalog:      catalog,
		publisher:    publisher,
		logger:       lg,
		queryTimeout: queryTimeout,
		now:          time.Now,
	}
}

// WithClock replaces the clock used to derive the selectable years.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SelectableYears returns the current and the next year.
func (s *Service) SelectableYears() []int {
	year := s.now().Year()
	return []int{year, year + 1}
}

func (s *Service) FormDefaults() FormDefaultsResponse {
	return FormDefaultsResponse{
		Months:   MonthNames(),
		Years:    s.SelectableYears(),
		Income:   zeroAmounts(s.catalog.IncomeCategories()),
		Expenses: zeroAmounts(s.catalog.ExpenseCategories()),
		Comment:  "",
		Currency: s.catalog.Currency(),
	}
}

// SaveEntry records a new entry. Saving a period twice keeps both rows.
func (s *Service) SaveEntry(ctx context.Context, dto SaveEntryDTO) (*Entry, error) {
	row, period, err := s.collect(dto)
	if err != nil {
		s.log(ctx).Warn("entry validation failed", "error", err, "month", dto.Month, "year", dto.Year)
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, row); err != nil {
		s.log(ctx).Error("failed to save entry", "error", err, "period", period.Key())
		return nil, storageError("failed to save entry", err)
	}

	saved := FromDataModel(row)
	s.log(ctx).Info("entry saved", "entry_id", saved.ID, "period", period.Key())
	s.publish(ctx, saved, period, events.NewEntrySavedEvent)

	return saved, nil
}

// ReplaceEntry stores dto as the only entry of the period addressed by periodKey.
func (s *Service) ReplaceEntry(ctx context.Context, periodKey string, dto SaveEntryDTO) (*Entry, error) {
	period, err := ParsePeriod(periodKey)
	if err != nil {
		return nil, err
	}

	if dto.Month == "" && dto.Year == 0 {
		dto.Month = period.MonthName()
		dto.Year = period.Year
	} else if m, ok := ParseMonth(dto.Month); !ok || m != period.Month || dto.Year != period.Year {
		return nil, internal.NewValidationFieldError("period",
			fmt.Sprintf("body month/year %s %d do not match period %s", dto.Month, dto.Year, period.Key()),
			internal.ErrCodePeriodMismatch)
	}

	row, _, err := s.collect(dto)
	if err != nil {
		s.log(ctx).Warn("entry validation failed", "error", err, "period", period.Key())
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.ReplacePeriod(ctx, row); err != nil {
		s.log(ctx).Error("failed to replace entry", "error", err, "period", period.Key())
		return nil, storageError("failed to replace entry", err)
	}

	saved := FromDataModel(row)
	s.log(ctx).Info("entry replaced", "entry_id", saved.ID, "period", period.Key())
	s.publish(ctx, saved, period, events.NewEntryReplacedEvent)

	return saved, nil
}

// LoadEntry returns the first entry stored for the period, or an empty entry when
// there is none.
func (s *Service) LoadEntry(ctx context.Context, periodKey string) (*Entry, error) {
	period, err := ParsePeriod(periodKey)
	if err != nil {
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	row, err := s.repo.FindFirstByPeriod(ctx, period.MonthName(), period.Year)
	if err != nil {
		s.log(ctx).Error("failed to load entry", "error", err, "period", period.Key())
		return nil, storageError("failed to load entry", err)
	}
	if row == nil {
		s.log(ctx).Debug("no entry for period", "period", period.Key())
		return EmptyEntry(period), nil
	}

	return FromDataModel(row), nil
}

func (s *Service) Summarize(ctx context.Context, periodKey string) (*Summary, error) {
	period, err := ParsePeriod(periodKey)
	if err != nil {
		return nil, err
	}

	e, err := s.LoadEntry(ctx, periodKey)
	if err != nil {
		return nil, err
	}

	summary, err := Summarize(period, e, s.catalog.Currency())
	if err != nil {
		s.log(ctx).Error("failed to summarize entry", "error", err, "period", period.Key(), "entry_id", e.ID)
		return nil, err
	}
	if !summary.HasData {
		s.log(ctx).Info("no data for period", "period", period.Key())
	}
	return summary, nil
}

// ListPeriods returns the stored period keys, newest first. Rows whose month is not a
// calendar month name are skipped.
func (s *Service) ListPeriods(ctx context.Context) ([]string, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.ListPeriods(ctx)
	if err != nil {
		s.log(ctx).Error("failed to list periods", "error", err)
		return nil, storageError("failed to list periods", err)
	}

	seen := make(map[Period]struct{}, len(rows))
	periods := make([]Period, 0, len(rows))
	for _, row := range rows {
		m, ok := ParseMonth(row.Month)
		if !ok {
			s.log(ctx).Warn("skipping stored period with unknown month", "month", row.Month, "year", row.Year)
			continue
		}
		p := NewPeriod(row.Year, m)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		periods = append(periods, p)
	}

	sort.Slice(periods, func(i, j int) bool {
		return periods[j].Before(periods[i])
	})

	keys := make([]string, len(periods))
	for i, p := range periods {
		keys[i] = p.Key()
	}
	return keys, nil
}

// collect validates the form and fills every configured category the form left out
// with zero.
func (s *Service) collect(dto SaveEntryDTO) (*entryDatamodel.DataEntry, Period, error) {
	v := validation.NewValidator()
	v.Field("month", dto.Month).
		Required().
		Custom(func(value interface{}) *internal.AppError {
			if name, _ := value.(string); name != "" {
				if _, ok := ParseMonth(name); !ok {
					return internal.NewValidationFieldError("month", fmt.Sprintf("unknown month %q", name), internal.ErrCodeInvalidMonth)
				}
			}
			return nil
		})
	v.Field("year", dto.Year).
		OneOfInt(s.SelectableYears(), internal.ErrCodeInvalidYear)
	v.Field("income", dto.Income).Amounts(s.catalog.IsIncomeCategory, MaxAmount)
	v.Field("expenses", dto.Expenses).Amounts(s.catalog.IsExpenseCategory, MaxAmount)
	v.Field("comment", dto.Comment).MaxLength(MaxCommentLength, internal.ErrCodeCommentTooLong)

	if appErr := v.Validate(); appErr != nil {
		return nil, Period{}, appErr
	}

	month, _ := ParseMonth(dto.Month)
	period := NewPeriod(dto.Year, month)

	row := &entryDatamodel.DataEntry{
		Month:    period.MonthName(),
		Year:     period.Year,
		Income:   fillAmounts(s.catalog.IncomeCategories(), dto.Income),
		Expenses: fillAmounts(s.catalog.ExpenseCategories(), dto.Expenses),
		Comment:  dto.Comment,
	}
	return row, period, nil
}

type recordedEventFunc func(entryID int64, period string, totalIncome, totalExpense int64) *events.EntryRecordedEvent

func (s *Service) publish(ctx context.Context, saved *Entry, period Period, newEvent recordedEventFunc) {
	if s.publisher == nil {
		return
	}
	income, expense, err := saved.Totals()
	if err != nil {
		s.log(ctx).Warn("entry event not built", "entry_id", saved.ID, "error", err)
		return
	}
	event := newEvent(saved.ID, period.Key(), income, expense)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log(ctx).Warn("entry event not delivered", "event_type", event.EventType(), "error", err)
	}
}

// log returns the service logger carrying the request's context fields, such as the trace id.
func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.Attach(ctx, s.logger)
}

func storageError(message string, err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	return internal.NewInternalError(message, err)
}

func zeroAmounts(categories []string) map[string]int64 {
	out := make(map[string]int64, len(categories))
	for _, c := range categories {
		out[c] = 0
	}
	return out
}

func fillAmounts(categories []string, given map[string]int64) entryDatamodel.Amounts {
	out := make(entryDatamodel.Amounts, len(categories))
	for _, c := range categories {
		out[c] = given[c]
	}
	return out
}
