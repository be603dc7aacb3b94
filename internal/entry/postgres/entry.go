package postgres

import (
	"context"
	"errors"

	entryDatamodel "github.com/frahmantamala/income-expense-tracker/internal/core/datamodel/entry"
	"github.com/frahmantamala/income-expense-tracker/internal/entry"
	"gorm.io/gorm"
)

// periodFilter matches the month case-insensitively.
const periodFilter = "LOWER(month) = LOWER(?) AND year = ?"

// EntryRepository implements entry.Repository on the data_entries table using GORM
type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) entry.Repository {
	return &EntryRepository{db: db}
}

// Create inserts a new row. No uniqueness check is made for the period.
func (r *EntryRepository) Create(ctx context.Context, row *entryDatamodel.DataEntry) error {
	return classify("insert entry", r.db.WithContext(ctx).Create(row).Error)
}

// FindFirstByPeriod returns the lowest-id row for the period, or nil when none exists.
// The month is matched case-insensitively.
func (r *EntryRepository) FindFirstByPeriod(ctx context.Context, month string, year int) (*entryDatamodel.DataEntry, error) {
	var row entryDatamodel.DataEntry
	err := r.db.WithContext(ctx).
		Where(periodFilter, month, year).
		Order("id ASC").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classify("select entry", err)
	}
	return &row, nil
}

// ReplacePeriod deletes every row of the period and inserts row, in one transaction.
func (r *EntryRepository) ReplacePeriod(ctx context.Context, row *entryDatamodel.DataEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(periodFilter, row.Month, row.Year).
			Delete(&entryDatamodel.DataEntry{}).Error; err != nil {
			return err
		}
		return tx.Create(row).Error
	})
	return classify("replace entry", err)
}

// ListPeriods returns the distinct (year, month) pairs present in the table.
func (r *EntryRepository) ListPeriods(ctx context.Context) ([]entryDatamodel.PeriodRow, error) {
	var rows []entryDatamodel.PeriodRow
	err := r.db.WithContext(ctx).
		Model(&entryDatamodel.DataEntry{}).
		Distinct("year", "month").
		Order("year DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, classify("list periods", err)
	}
	return rows, nil
}
