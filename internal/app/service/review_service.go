package service

import (
	"context"
	"errors"
	"strings"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/internal/docstore"
	"github.com/guialocal/guialocal-backend/pkg/logger"
)

var (
	ErrReviewNotFound      = errors.New("avaliação não encontrada")
	ErrInvalidRating       = errors.New("a nota deve estar entre 1 e 5")
	ErrReviewForbidden     = errors.New("sem permissão para remover esta avaliação")
	ErrReviewAlreadyPublic = errors.New("avaliação já aprovada")
)

// ReviewInput is the body of a new review.
type ReviewInput struct {
	Rating   int    `json:"rating" binding:"required"`
	Comment  string `json:"comment"`
	UserName string `json:"user_name"`
}

type ReviewService struct {
	reviews    repository.ReviewRepository
	businesses repository.BusinessRepository
	clock      Clock
}

func NewReviewService(reviews repository.ReviewRepository, businesses repository.BusinessRepository, clock Clock) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		businesses: businesses,
		clock:      clock,
	}
}

// CreateReview stores a review. Ratings of 3 or more publish immediately and
// refresh the business aggregate; lower ratings wait for moderation.
func (s *ReviewService) CreateReview(ctx context.Context, businessID, userID string, input ReviewInput) (*model.Review, error) {
	if !model.ValidRating(input.Rating) {
		return nil, ErrInvalidRating
	}
	if _, err := s.businesses.FindByID(ctx, businessID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	now := s.clock.Now().UnixMilli()
	review := &model.Review{
		BusinessID: businessID,
		UserID:     userID,
		UserName:   strings.TrimSpace(input.UserName),
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		Status:     model.InitialReviewStatus(input.Rating),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":   review.ID,
		"business_id": businessID,
		"status":      review.Status,
	})

	if review.Status == model.ReviewApproved {
		if err := s.recompute(ctx, businessID); err != nil {
			return nil, err
		}
	}
	return review, nil
}

// ListApproved returns the public reviews of a business, newest first.
func (s *ReviewService) ListApproved(ctx context.Context, businessID string) ([]model.Review, error) {
	return s.reviews.FindByBusiness(ctx, businessID, model.ReviewApproved)
}

// ListPending is the moderation queue, oldest first.
func (s *ReviewService) ListPending(ctx context.Context) ([]model.Review, error) {
	return s.reviews.FindByStatus(ctx, model.ReviewPending)
}

func (s *ReviewService) Approve(ctx context.Context, actor Actor, reviewID string) (*model.Review, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	review, err := s.find(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status == model.ReviewApproved {
		return nil, ErrReviewAlreadyPublic
	}

	now := s.clock.Now().UnixMilli()
	if err := s.reviews.UpdateStatus(ctx, reviewID, model.ReviewApproved, now); err != nil {
		return nil, err
	}
	review.Status = model.ReviewApproved
	review.UpdatedAt = now

	logger.Info("Review approved", map[string]interface{}{
		"review_id": reviewID,
		"admin_id":  actor.UserID,
	})
	if err := s.recompute(ctx, review.BusinessID); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review. Admins may delete any review, users only
// their own.
func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, reviewID string) error {
	review, err := s.find(ctx, reviewID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && review.UserID != actor.UserID {
		return ErrReviewForbidden
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	logger.Info("Review deleted", map[string]interface{}{
		"review_id": reviewID,
		"user_id":   actor.UserID,
	})
	if review.Status == model.ReviewApproved {
		return s.recompute(ctx, review.BusinessID)
	}
	return nil
}

func (s *ReviewService) find(ctx context.Context, id string) (*model.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// recompute writes the mean and count of approved reviews to the business.
func (s *ReviewService) recompute(ctx context.Context, businessID string) error {
	approved, err := s.reviews.FindByBusiness(ctx, businessID, model.ReviewApproved)
	if err != nil {
		return err
	}
	rating := 0.0
	if len(approved) > 0 {
		sum := 0
		for _, r := range approved {
			sum += r.Rating
		}
		rating = float64(sum) / float64(len(approved))
	}

	err = s.businesses.Update(ctx, businessID, map[string]any{
		"rating":       rating,
		"review_count": len(approved),
	})
	if err != nil && errors.Is(err, docstore.ErrNotFound) {
		logger.Warn("Business removed before rating refresh", map[string]interface{}{
			"business_id": businessID,
		})
		return nil
	}
	return err
}
