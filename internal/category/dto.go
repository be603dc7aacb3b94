package category

type CategoryResponse struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type CategoriesResponse struct {
	Currency string             `json:"currency"`
	Income   []CategoryResponse `json:"income"`
	Expenses []CategoryResponse `json:"expenses"`
}
