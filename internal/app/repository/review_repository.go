package repository

import (
	"context"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/docstore"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id string) (*model.Review, error)
	// FindByBusiness lists reviews newest first; an empty status means all.
	FindByBusiness(ctx context.Context, businessID string, status model.ReviewStatus) ([]model.Review, error)
	FindByStatus(ctx context.Context, status model.ReviewStatus) ([]model.Review, error)
	UpdateStatus(ctx context.Context, id string, status model.ReviewStatus, updatedAt int64) error
	Delete(ctx context.Context, id string) error
}

type reviewRepository struct {
	coll docstore.Collection
}

func NewReviewRepository(store docstore.Store) ReviewRepository {
	return &reviewRepository{coll: store.Collection(ReviewsCollection)}
}

func setReviewID(r *model.Review, id string) { r.ID = id }

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	doc, err := docstore.Encode(review)
	if err != nil {
		return err
	}
	id, err := r.coll.Add(ctx, doc)
	if err != nil {
		return err
	}
	review.ID = id
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var review model.Review
	if err := docstore.Decode(doc, &review); err != nil {
		return nil, err
	}
	review.ID = id
	return &review, nil
}

func (r *reviewRepository) FindByBusiness(ctx context.Context, businessID string, status model.ReviewStatus) ([]model.Review, error) {
	q := docstore.NewQuery().Where("business_id", docstore.OpEqual, businessID)
	if status != "" {
		q.Where("status", docstore.OpEqual, string(status))
	}
	snaps, err := r.coll.Query(ctx, q.OrderBy("created_at", true))
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, setReviewID)
}

func (r *reviewRepository) FindByStatus(ctx context.Context, status model.ReviewStatus) ([]model.Review, error) {
	snaps, err := r.coll.Query(ctx, docstore.NewQuery().
		Where("status", docstore.OpEqual, string(status)).
		OrderBy("created_at", false))
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, setReviewID)
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id string, status model.ReviewStatus, updatedAt int64) error {
	return r.coll.Update(ctx, id, map[string]any{
		"status":     string(status),
		"updated_at": updatedAt,
	})
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}
