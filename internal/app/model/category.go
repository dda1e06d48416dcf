package model

// Category is a listing category. ID is the slug of the label.
type Category struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Order     int    `json:"order"`
	CreatedAt int64  `json:"created_at,omitempty"`
}
