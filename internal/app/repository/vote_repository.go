package repository

import (
	"context"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/docstore"
)

type VoteRepository interface {
	// Find returns docstore.ErrNotFound when the user has not voted.
	Find(ctx context.Context, businessID, userID string) (*model.Vote, error)
	Save(ctx context.Context, vote *model.Vote) error
	Delete(ctx context.Context, businessID, userID string) error
	FindByUser(ctx context.Context, userID string) ([]model.Vote, error)
}

type voteRepository struct {
	coll docstore.Collection
}

func NewVoteRepository(store docstore.Store) VoteRepository {
	return &voteRepository{coll: store.Collection(VotesCollection)}
}

func (r *voteRepository) Find(ctx context.Context, businessID, userID string) (*model.Vote, error) {
	id := model.VoteID(businessID, userID)
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var vote model.Vote
	if err := docstore.Decode(doc, &vote); err != nil {
		return nil, err
	}
	vote.ID = id
	return &vote, nil
}

func (r *voteRepository) Save(ctx context.Context, vote *model.Vote) error {
	vote.ID = model.VoteID(vote.BusinessID, vote.UserID)
	doc, err := docstore.Encode(vote)
	if err != nil {
		return err
	}
	return r.coll.Set(ctx, vote.ID, doc)
}

func (r *voteRepository) Delete(ctx context.Context, businessID, userID string) error {
	return r.coll.Delete(ctx, model.VoteID(businessID, userID))
}

func (r *voteRepository) FindByUser(ctx context.Context, userID string) ([]model.Vote, error) {
	snaps, err := r.coll.Query(ctx, docstore.NewQuery().Where("user_id", docstore.OpEqual, userID))
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, func(v *model.Vote, id string) { v.ID = id })
}
