package category

import (
	"log/slog"

	"github.com/frahmantamala/income-expense-tracker/internal"
)

// Service is the fixed category catalog. Categories come from configuration and are
// never persisted.
type Service struct {
	income   []Category
	expenses []Category
	currency string
	logger   *slog.Logger
}

func NewService(cfg internal.TrackerConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	currency := cfg.Currency
	if currency == "" {
		currency = internal.DefaultCurrency
	}
	income := cfg.IncomeCategories
	if len(income) == 0 {
		income = internal.DefaultIncomeCategories
	}
	expenses := cfg.ExpenseCategories
	if len(expenses) == 0 {
		expenses = internal.DefaultExpenseCategories
	}
	return &Service{
		income:   newCategories(KindIncome, income),
		expenses: newCategories(KindExpense, expenses),
		currency: currency,
		logger:   logger,
	}
}

func (s *Service) IncomeCategories() []string {
	return names(s.income)
}

func (s *Service) ExpenseCategories() []string {
	return names(s.expenses)
}

func (s *Service) Currency() string {
	return s.currency
}

func (s *Service) IsIncomeCategory(name string) bool {
	return contains(s.income, name)
}

func (s *Service) IsExpenseCategory(name string) bool {
	return contains(s.expenses, name)
}

func (s *Service) GetAllCategories() CategoriesResponse {
	resp := CategoriesResponse{
		Currency: s.currency,
		Income:   make([]CategoryResponse, 0, len(s.income)),
		Expenses: make([]CategoryResponse, 0, len(s.expenses)),
	}
	for _, c := range s.income {
		resp.Income = append(resp.Income, c.ToResponse())
	}
	for _, c := range s.expenses {
		resp.Expenses = append(resp.Expenses, c.ToResponse())
	}
	s.logger.Debug("retrieved categories", "income", len(resp.Income), "expenses", len(resp.Expenses))
	return resp
}

func names(cats []Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return out
}

func contains(cats []Category, name string) bool {
	for _, c := range cats {
		if c.Name == name {
			return true
		}
	}
	return false
}
