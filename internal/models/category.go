package models

// Category is a labeled tag that posts can be associated with.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PersonalityTrait is a labeled trait that users can select for themselves.
type PersonalityTrait struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}
