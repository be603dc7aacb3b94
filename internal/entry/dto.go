package entry

// SaveEntryDTO is the submitted entry form. Categories left out are recorded as zero.
type SaveEntryDTO struct {
	Month    string           `json:"month"`
	Year     int              `json:"year"`
	Income   map[string]int64 `json:"income"`
	Expenses map[string]int64 `json:"expenses"`
	Comment  string           `json:"comment"`
}

// FormDefaultsResponse describes a blank entry form.
type FormDefaultsResponse struct {
	Months   []string         `json:"months"`
	Years    []int            `json:"years"`
	Income   map[string]int64 `json:"income"`
	Expenses map[string]int64 `json:"expenses"`
	Comment  string           `json:"comment"`
	Currency string           `json:"currency"`
}

type PeriodsResponse struct {
	Periods []string `json:"periods"`
}

const (
	// MaxCommentLength bounds the free-text comment.
	MaxCommentLength = 2000

	// MaxAmount bounds a single category amount so period totals stay well inside int64.
	MaxAmount int64 = 1_000_000_000_000
)
