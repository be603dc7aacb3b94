package entry

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Amounts maps a category name to a non-negative amount. It is stored as a JSON document.
type Amounts map[string]int64

func (a Amounts) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]int64(a))
	if err != nil {
		return nil, fmt.Errorf("marshal amounts: %w", err)
	}
	return string(b), nil
}

func (a *Amounts) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Amounts{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan amounts: unsupported type %T", src)
	}

	out := Amounts{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("unmarshal amounts: %w", err)
		}
	}
	*a = out
	return nil
}

type DataEntry struct {
	ID        int64     `gorm:"primaryKey"`
	Month     string    `gorm:"column:month;not null"`
	Year      int       `gorm:"column:year;not null"`
	Income    Amounts   `gorm:"column:income;type:jsonb;not null"`
	Expenses  Amounts   `gorm:"column:expenses;type:jsonb;not null"`
	Comment   string    `gorm:"column:comment;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DataEntry) TableName() string {
	return "data_entries"
}

// PeriodRow is one distinct (year, month) pair present in data_entries.
type PeriodRow struct {
	Year  int    `gorm:"column:year" db:"year"`
	Month string `gorm:"column:month" db:"month"`
}
