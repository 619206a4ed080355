package models

// SelectRequest represents the request body for picking an item.
// Either Ref or Index identifies the item; an empty Ref with no Index
// clears the category.
type SelectRequest struct {
	Category string `json:"category"`
	Ref      string `json:"ref"`
	Index    *int   `json:"index,omitempty"`
}

// CategoryRequest represents a request that only names a category
type CategoryRequest struct {
	Category string `json:"category"`
}

// ModeRequest represents the request body for changing the hair layering mode
type ModeRequest struct {
	Mode string `json:"mode"`
}
