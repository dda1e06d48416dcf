package model

// VoteType is a user's opinion on a business. The empty value means no vote.
type VoteType string

const (
	VoteNone    VoteType = ""
	VoteLike    VoteType = "like"
	VoteDislike VoteType = "dislike"
)

// ValidAction reports whether v can be submitted as a vote.
func (v VoteType) ValidAction() bool {
	return v == VoteLike || v == VoteDislike
}

// Vote is keyed by (business_id, user_id); see VoteID.
type Vote struct {
	ID         string   `json:"id"`
	BusinessID string   `json:"business_id"`
	UserID     string   `json:"user_id"`
	Type       VoteType `json:"type"`
	CreatedAt  int64    `json:"created_at"`
	UpdatedAt  int64    `json:"updated_at"`
}

// VoteID is the deterministic document id for a user's vote on a business.
func VoteID(businessID, userID string) string {
	return businessID + "_" + userID
}

// VoteTransition is the outcome of applying an action to a vote state.
type VoteTransition struct {
	Next          VoteType
	LikesDelta    int64
	DislikesDelta int64
}

// NextVote applies action to the current state. Repeating the current vote
// removes it; the opposite vote switches it.
func NextVote(current, action VoteType) VoteTransition {
	switch current {
	case VoteLike:
		if action == VoteLike {
			return VoteTransition{Next: VoteNone, LikesDelta: -1}
		}
		return VoteTransition{Next: VoteDislike, LikesDelta: -1, DislikesDelta: 1}
	case VoteDislike:
		if action == VoteDislike {
			return VoteTransition{Next: VoteNone, DislikesDelta: -1}
		}
		return VoteTransition{Next: VoteLike, LikesDelta: 1, DislikesDelta: -1}
	}
	if action == VoteLike {
		return VoteTransition{Next: VoteLike, LikesDelta: 1}
	}
	return VoteTransition{Next: VoteDislike, DislikesDelta: 1}
}
