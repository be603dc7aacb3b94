package entry_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/income-expense-tracker/internal"
	"github.com/frahmantamala/income-expense-tracker/internal/category"
	entryDatamodel "github.com/frahmantamala/income-expense-tracker/internal/core/datamodel/entry"
	"github.com/frahmantamala/income-expense-tracker/internal/core/events"
	"github.com/frahmantamala/income-expense-tracker/internal/entry"
)

type mockRepository struct {
	rows   []entryDatamodel.DataEntry
	nextID int64
	err    error
}

func (m *mockRepository) Create(ctx context.Context, row *entryDatamodel.DataEntry) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	row.ID = m.nextID
	row.CreatedAt = time.Now()
	m.rows = append(m.rows, *row)
	return nil
}

func (m *mockRepository) FindFirstByPeriod(ctx context.Context, month string, year int) (*entryDatamodel.DataEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.rows {
		if strings.EqualFold(m.rows[i].Month, month) && m.rows[i].Year == year {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) ReplacePeriod(ctx context.Context, row *entryDatamodel.DataEntry) error {
	if m.err != nil {
		return m.err
	}
	kept := m.rows[:0]
	for _, r := range m.rows {
		if !strings.EqualFold(r.Month, row.Month) || r.Year != row.Year {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return m.Create(ctx, row)
}

func (m *mockRepository) ListPeriods(ctx context.Context) ([]entryDatamodel.PeriodRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entryDatamodel.PeriodRow, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, entryDatamodel.PeriodRow{Year: r.Year, Month: r.Month})
	}
	return out, nil
}

type mockPublisher struct {
	events []events.Event
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.events = append(m.events, event)
	return m.err
}

func novemberForm() entry.SaveEntryDTO {
	return entry.SaveEntryDTO{
		Month:    "November",
		Year:     2024,
		Income:   map[string]int64{"Salary": 50000, "Other income": 0},
		Expenses: map[string]int64{"MMF": 5000, "Groceries": 10000, "Utilities": 2000, "Other Expenses": 0},
		Comment:  "test",
	}
}

func validationCodes(err error) []string {
	appErr, ok := internal.IsAppError(err)
	gomega.Expect(ok).To(gomega.BeTrue())
	details, ok := appErr.Details.(internal.ValidationErrors)
	gomega.Expect(ok).To(gomega.BeTrue())
	codes := make([]string, len(details.Errors))
	for i, d := range details.Errors {
		codes[i] = d.Code
	}
	return codes
}

var _ = ginkgo.Describe("EntryService", func() {
	var (
		repo      *mockRepository
		publisher *mockPublisher
		service   *entry.Service
		ctx       context.Context
	)

	ginkgo.BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo = &mockRepository{}
		publisher = &mockPublisher{}
		catalog := category.NewService(internal.TrackerConfig{}, logger)
		service = entry.NewService(repo, catalog, publisher, logger, time.Second).
			WithClock(func() time.Time { return time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC) })
		ctx = context.Background()
	})

	ginkgo.Describe("FormDefaults", func() {
		ginkgo.It("should offer every category at zero and the current and next year", func() {
			form := service.FormDefaults()
			gomega.Expect(form.Months).To(gomega.HaveLen(12))
			gomega.Expect(form.Years).To(gomega.Equal([]int{2024, 2025}))
			gomega.Expect(form.Income).To(gomega.Equal(map[string]int64{"Salary": 0, "Other income": 0}))
			gomega.Expect(form.Expenses).To(gomega.HaveLen(4))
			gomega.Expect(form.Expenses).To(gomega.HaveKeyWithValue("Other Expenses", int64(0)))
			gomega.Expect(form.Comment).To(gomega.BeEmpty())
			gomega.Expect(form.Currency).To(gomega.Equal("KSH"))
		})
	})

	ginkgo.Describe("SaveEntry", func() {
		ginkgo.It("should store the entry and publish a saved event", func() {
			saved, err := service.SaveEntry(ctx, novemberForm())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(saved.ID).To(gomega.Equal(int64(1)))
			gomega.Expect(saved.Found).To(gomega.BeTrue())
			gomega.Expect(repo.rows).To(gomega.HaveLen(1))

			gomega.Expect(publisher.events).To(gomega.HaveLen(1))
			ev, ok := publisher.events[0].(*events.EntryRecordedEvent)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(ev.EventType()).To(gomega.Equal(events.EventTypeEntrySaved))
			gomega.Expect(ev.Period).To(gomega.Equal("2024_November"))
			gomega.Expect(ev.TotalIncome).To(gomega.Equal(int64(50000)))
			gomega.Expect(ev.TotalExpense).To(gomega.Equal(int64(17000)))
		})

		ginkgo.It("should record categories left out of the form as zero", func() {
			form := entry.SaveEntryDTO{
				Month:    "december",
				Year:     2024,
				Income:   map[string]int64{"Salary": 100},
				Expenses: nil,
			}

			saved, err := service.SaveEntry(ctx, form)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(saved.Month).To(gomega.Equal("December"))
			gomega.Expect(saved.Income).To(gomega.Equal(map[string]int64{"Salary": 100, "Other income": 0}))
			gomega.Expect(saved.Expenses).To(gomega.Equal(map[string]int64{
				"MMF": 0, "Groceries": 0, "Utilities": 0, "Other Expenses": 0,
			}))
		})

		ginkgo.It("should keep both rows when a period is saved twice", func() {
			_, err := service.SaveEntry(ctx, novemberForm())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			second := novemberForm()
			second.Comment = "second"
			_, err = service.SaveEntry(ctx, second)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.rows).To(gomega.HaveLen(2))

			loaded, err := service.LoadEntry(ctx, "2024_November")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(loaded.Comment).To(gomega.Equal("test"))
		})

		ginkgo.DescribeTable("should reject invalid forms without touching storage",
			func(mutate func(*entry.SaveEntryDTO), code string) {
				form := novemberForm()
				mutate(&form)

				_, err := service.SaveEntry(ctx, form)
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(validationCodes(err)).To(gomega.ContainElement(code))
				gomega.Expect(repo.rows).To(gomega.BeEmpty())
				gomega.Expect(publisher.events).To(gomega.BeEmpty())
			},
			ginkgo.Entry("missing month", func(f *entry.SaveEntryDTO) { f.Month = "" }, string(internal.ErrCodeValidationFailed)),
			ginkgo.Entry("unknown month", func(f *entry.SaveEntryDTO) { f.Month = "Smarch" }, string(internal.ErrCodeInvalidMonth)),
			ginkgo.Entry("past year", func(f *entry.SaveEntryDTO) { f.Year = 2023 }, string(internal.ErrCodeInvalidYear)),
			ginkgo.Entry("far future year", func(f *entry.SaveEntryDTO) { f.Year = 2030 }, string(internal.ErrCodeInvalidYear)),
			ginkgo.Entry("negative amount", func(f *entry.SaveEntryDTO) { f.Expenses["MMF"] = -1 }, string(internal.ErrCodeInvalidAmount)),
			ginkgo.Entry("income over the limit", func(f *entry.SaveEntryDTO) { f.Income["Salary"] = entry.MaxAmount + 1 }, string(internal.ErrCodeInvalidAmount)),
			ginkgo.Entry("expense of the int64 maximum", func(f *entry.SaveEntryDTO) { f.Expenses["MMF"] = math.MaxInt64 }, string(internal.ErrCodeInvalidAmount)),
			ginkgo.Entry("unknown income category", func(f *entry.SaveEntryDTO) { f.Income["Bonus"] = 10 }, string(internal.ErrCodeInvalidCategory)),
			ginkgo.Entry("expense category given as income", func(f *entry.SaveEntryDTO) { f.Income["MMF"] = 10 }, string(internal.ErrCodeInvalidCategory)),
			ginkgo.Entry("long comment", func(f *entry.SaveEntryDTO) { f.Comment = strings.Repeat("x", entry.MaxCommentLength+1) }, string(internal.ErrCodeCommentTooLong)),
		)

		ginkgo.It("should pass storage unavailability through", func() {
			repo.err = internal.NewUnavailableError("storage unavailable", errors.New("connection refused"))

			_, err := service.SaveEntry(ctx, novemberForm())
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(errors.Is(err, internal.ErrStorageUnavailable)).To(gomega.BeTrue())
			gomega.Expect(publisher.events).To(gomega.BeEmpty())
		})

		ginkgo.It("should wrap unexpected storage failures as internal errors", func() {
			repo.err = errors.New("syntax error")

			_, err := service.SaveEntry(ctx, novemberForm())
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInternal))
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
		})

		ginkgo.It("should still succeed when the event cannot be delivered", func() {
			publisher.err = errors.New("subscriber failed")

			saved, err := service.SaveEntry(ctx, novemberForm())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(saved).ToNot(gomega.BeNil())
		})
	})

	ginkgo.Describe("ReplaceEntry", func() {
		ginkgo.It("should leave a single row for the period", func() {
			_, err := service.SaveEntry(ctx, novemberForm())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.SaveEntry(ctx, novemberForm())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			form := novemberForm()
			form.Comment = "replaced"
			saved, err := service.ReplaceEntry(ctx, "2024_November", form)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(saved.Comment).To(gomega.Equal("replaced"))
			gomega.Expect(repo.rows).To(gomega.HaveLen(1))
			gomega.Expect(publisher.events[len(publisher.events)-1].EventType()).To(gomega.Equal(events.EventTypeEntryReplaced))
		})

		ginkgo.It("should take month and year from the key when the body omits them", func() {
			form := novemberForm()
			form.Month = ""
			form.Year = 0

			saved, err := service.ReplaceEntry(ctx, "2025_february", form)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(saved.Month).To(gomega.Equal("February"))
			gomega.Expect(saved.Year).To(gomega.Equal(2025))
		})

		ginkgo.It("should reject a body that names another period", func() {
			_, err := service.ReplaceEntry(ctx, "2024_December", novemberForm())
			gomega.Expect(validationCodes(err)).To(gomega.ContainElement(string(internal.ErrCodePeriodMismatch)))
			gomega.Expect(repo.rows).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject a malformed key", func() {
			_, err := service.ReplaceEntry(ctx, "November", novemberForm())
			gomega.Expect(errors.Is(err, internal.ErrInvalidPeriod)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("LoadEntry", func() {
		ginkgo.It("should return an empty entry for a period with no data", func() {
			e, err := service.LoadEntry(ctx, "2024_November")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(e.Found).To(gomega.BeFalse())
			gomega.Expect(e.Month).To(gomega.Equal("November"))
			gomega.Expect(e.Year).To(gomega.Equal(2024))
			gomega.Expect(e.Income).To(gomega.BeEmpty())
			gomega.Expect(e.Expenses).To(gomega.BeEmpty())
			gomega.Expect(e.Comment).To(gomega.BeEmpty())
		})

		ginkgo.It("should return the saved entry", func() {
			_, err := service.SaveEntry(ctx, novemberForm())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			e, err := service.LoadEntry(ctx, "2024_November")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(e.Found).To(gomega.BeTrue())
			gomega.Expect(e.Income).To(gomega.Equal(novemberForm().Income))
			gomega.Expect(e.Expenses).To(gomega.Equal(novemberForm().Expenses))
			gomega.Expect(e.Comment).To(gomega.Equal("test"))
		})

		ginkgo.It("should find a row stored with a lowercase month", func() {
			repo.rows = append(repo.rows, entryDatamodel.DataEntry{
				ID: 7, Month: "november", Year: 2024,
				Income: entryDatamodel.Amounts{"Salary": 100}, Expenses: entryDatamodel.Amounts{},
			})

			e, err := service.LoadEntry(ctx, "2024_November")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(e.Found).To(gomega.BeTrue())
			gomega.Expect(e.ID).To(gomega.Equal(int64(7)))
			gomega.Expect(e.Month).To(gomega.Equal("November"))
		})

		ginkgo.It("should reject a malformed key before querying", func() {
			repo.err = errors.New("must not be called")

			_, err := service.LoadEntry(ctx, "2024-November")
			gomega.Expect(errors.Is(err, internal.ErrInvalidPeriod)).To(gomega.BeTrue())
		})

		ginkgo.It("should report storage unavailability", func() {
			repo.err = internal.NewUnavailableError("storage unavailable", errors.New("dial tcp: connection refused"))

			_, err := service.LoadEntry(ctx, "2024_November")
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(503))
		})
	})

	ginkgo.Describe("Summarize", func() {
		ginkgo.It("should compute the remaining budget of a saved period", func() {
			_, err := service.SaveEntry(ctx, novemberForm())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			s, err := service.Summarize(ctx, "2024_November")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(s.HasData).To(gomega.BeTrue())
			gomega.Expect(s.Currency).To(gomega.Equal("KSH"))
			gomega.Expect(s.Figures.TotalIncome).To(gomega.Equal(int64(50000)))
			gomega.Expect(s.Figures.TotalExpense).To(gomega.Equal(int64(17000)))
			gomega.Expect(s.Figures.RemainingBudget).To(gomega.Equal(int64(33000)))
		})

		ginkgo.It("should accept amounts at the limit", func() {
			form := novemberForm()
			form.Income["Salary"] = entry.MaxAmount
			_, err := service.SaveEntry(ctx, form)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			s, err := service.Summarize(ctx, "2024_November")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(s.Figures.TotalIncome).To(gomega.Equal(entry.MaxAmount))
		})

		ginkgo.It("should fail instead of wrapping on stored totals past int64", func() {
			repo.rows = append(repo.rows, entryDatamodel.DataEntry{
				Month: "November", Year: 2024,
				Income:   entryDatamodel.Amounts{"Salary": math.MaxInt64, "Other income": 1},
				Expenses: entryDatamodel.Amounts{"MMF": 1},
			})

			s, err := service.Summarize(ctx, "2024_November")
			gomega.Expect(s).To(gomega.BeNil())
			gomega.Expect(errors.Is(err, internal.ErrAmountOverflow)).To(gomega.BeTrue())
		})

		ginkgo.It("should report no data for an unsaved period", func() {
			s, err := service.Summarize(ctx, "2024_December")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(s.HasData).To(gomega.BeFalse())
			gomega.Expect(s.Message).To(gomega.Equal(entry.NoDataMessage))
		})
	})

	ginkgo.Describe("ListPeriods", func() {
		ginkgo.It("should list distinct periods newest first", func() {
			for _, p := range []struct {
				month string
				year  int
			}{{"March", 2025}, {"November", 2024}, {"January", 2025}, {"November", 2024}} {
				form := novemberForm()
				form.Month = p.month
				form.Year = p.year
				_, err := service.SaveEntry(ctx, form)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			}

			periods, err := service.ListPeriods(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(periods).To(gomega.Equal([]string{"2025_March", "2025_January", "2024_November"}))
		})

		ginkgo.It("should skip rows whose month is not a calendar month", func() {
			repo.rows = append(repo.rows, entryDatamodel.DataEntry{Month: "Smarch", Year: 2024})

			periods, err := service.ListPeriods(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(periods).To(gomega.BeEmpty())
		})
	})
})
