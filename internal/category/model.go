package category

// Category is reference data for expenses. Referenced categories cannot be hard deleted.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
