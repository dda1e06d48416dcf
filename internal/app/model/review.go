package model

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
)

// MinAutoApproveRating is the lowest rating published without moderation.
const MinAutoApproveRating = 3

type Review struct {
	ID         string       `json:"id"`
	BusinessID string       `json:"business_id"`
	UserID     string       `json:"user_id"`
	UserName   string       `json:"user_name"`
	Rating     int          `json:"rating"` // 1..5
	Comment    string       `json:"comment"`
	Status     ReviewStatus `json:"status"`
	CreatedAt  int64        `json:"created_at"`
	UpdatedAt  int64        `json:"updated_at"`
}

// InitialReviewStatus decides moderation for a new review.
func InitialReviewStatus(rating int) ReviewStatus {
	if rating >= MinAutoApproveRating {
		return ReviewApproved
	}
	return ReviewPending
}

// ValidRating reports whether rating is within 1..5.
func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
