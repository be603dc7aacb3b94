package category

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

type Category struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

func (c Category) ToResponse() CategoryResponse {
	return CategoryResponse{Name: c.Name, Kind: string(c.Kind)}
}

func newCategories(kind Kind, names []string) []Category {
	out := make([]Category, len(names))
	for i, name := range names {
		out[i] = Category{Name: name, Kind: kind}
	}
	return out
}
