package service

import (
	"context"
	"errors"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/internal/docstore"
	"github.com/guialocal/guialocal-backend/pkg/logger"
)

var ErrInvalidVoteType = errors.New("tipo de voto inválido")

// VoteResult is the caller's vote state after an action plus the updated
// business counters.
type VoteResult struct {
	State    model.VoteType `json:"state"`
	Likes    int64          `json:"likes"`
	Dislikes int64          `json:"dislikes"`
}

type VoteService interface {
	Vote(ctx context.Context, businessID, userID string, action model.VoteType) (*VoteResult, error)
	GetUserVote(ctx context.Context, businessID, userID string) (model.VoteType, error)
}

type voteService struct {
	votes      repository.VoteRepository
	businesses repository.BusinessRepository
	clock      Clock
}

func NewVoteService(votes repository.VoteRepository, businesses repository.BusinessRepository, clock Clock) VoteService {
	return &voteService{votes: votes, businesses: businesses, clock: clock}
}

// Vote applies a like/dislike toggle. The vote record and the counters are
// written separately; a failure between the two leaves them inconsistent
// until the next vote on the business.
func (s *voteService) Vote(ctx context.Context, businessID, userID string, action model.VoteType) (*VoteResult, error) {
	if !action.ValidAction() {
		return nil, ErrInvalidVoteType
	}

	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	existing, err := s.votes.Find(ctx, businessID, userID)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return nil, err
	}
	current := model.VoteNone
	if existing != nil {
		current = existing.Type
	}
	transition := model.NextVote(current, action)

	now := s.clock.Now().UnixMilli()
	switch {
	case transition.Next == model.VoteNone:
		err = s.votes.Delete(ctx, businessID, userID)
	case existing != nil:
		existing.Type = transition.Next
		existing.UpdatedAt = now
		err = s.votes.Save(ctx, existing)
	default:
		err = s.votes.Save(ctx, &model.Vote{
			BusinessID: businessID,
			UserID:     userID,
			Type:       transition.Next,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if err != nil {
		logger.Error("Failed to persist vote", err, map[string]interface{}{
			"business_id": businessID,
			"user_id":     userID,
		})
		return nil, err
	}

	likes := clampCounter(business.Analytics.Likes + transition.LikesDelta)
	dislikes := clampCounter(business.Analytics.Dislikes + transition.DislikesDelta)
	if err := s.businesses.Update(ctx, businessID, map[string]any{
		"analytics.likes":    likes,
		"analytics.dislikes": dislikes,
	}); err != nil {
		logger.Error("Failed to update vote counters", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}

	logger.Debug("Vote applied", map[string]interface{}{
		"business_id": businessID,
		"user_id":     userID,
		"from":        current,
		"to":          transition.Next,
	})
	return &VoteResult{State: transition.Next, Likes: likes, Dislikes: dislikes}, nil
}

// GetUserVote returns VoteNone when the user has not voted.
func (s *voteService) GetUserVote(ctx context.Context, businessID, userID string) (model.VoteType, error) {
	vote, err := s.votes.Find(ctx, businessID, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return model.VoteNone, nil
		}
		return model.VoteNone, err
	}
	return vote.Type, nil
}

func clampCounter(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
