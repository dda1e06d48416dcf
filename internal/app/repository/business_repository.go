package repository

import (
	"context"
	"fmt"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/docstore"
)

// BusinessFilter narrows a listing by exact field matches. Empty fields are ignored.
type BusinessFilter struct {
	City     string
	State    string
	Category string
	OwnerID  string
}

type BusinessRepository interface {
	FindAll(ctx context.Context) ([]model.Business, error)
	FindByFilter(ctx context.Context, filter BusinessFilter) ([]model.Business, error)
	FindByID(ctx context.Context, id string) (*model.Business, error)
	FindByPlaceID(ctx context.Context, placeID string) (*model.Business, error)
	FindByName(ctx context.Context, name string) (*model.Business, error)
	Create(ctx context.Context, business *model.Business) error
	Save(ctx context.Context, business *model.Business) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type businessRepository struct {
	coll docstore.Collection
}

func NewBusinessRepository(store docstore.Store) BusinessRepository {
	return &businessRepository{coll: store.Collection(BusinessesCollection)}
}

func setBusinessID(b *model.Business, id string) { b.ID = id }

func (r *businessRepository) FindAll(ctx context.Context) ([]model.Business, error) {
	snaps, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, setBusinessID)
}

func (r *businessRepository) FindByFilter(ctx context.Context, filter BusinessFilter) ([]model.Business, error) {
	q := docstore.NewQuery()
	if filter.City != "" {
		q.Where("city", docstore.OpEqual, filter.City)
	}
	if filter.State != "" {
		q.Where("state", docstore.OpEqual, filter.State)
	}
	if filter.Category != "" {
		q.Where("category", docstore.OpEqual, filter.Category)
	}
	if filter.OwnerID != "" {
		q.Where("owner_id", docstore.OpEqual, filter.OwnerID)
	}
	snaps, err := r.coll.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, setBusinessID)
}

func (r *businessRepository) FindByID(ctx context.Context, id string) (*model.Business, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var business model.Business
	if err := docstore.Decode(doc, &business); err != nil {
		return nil, err
	}
	business.ID = id
	return &business, nil
}

// FindByPlaceID returns docstore.ErrNotFound when no business carries placeID.
func (r *businessRepository) FindByPlaceID(ctx context.Context, placeID string) (*model.Business, error) {
	return r.findOne(ctx, "google_place_id", placeID)
}

// FindByName matches the name exactly, case included.
func (r *businessRepository) FindByName(ctx context.Context, name string) (*model.Business, error) {
	return r.findOne(ctx, "name", name)
}

func (r *businessRepository) findOne(ctx context.Context, field, value string) (*model.Business, error) {
	if value == "" {
		return nil, docstore.ErrNotFound
	}
	snaps, err := r.coll.Query(ctx, docstore.NewQuery().Where(field, docstore.OpEqual, value).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, docstore.ErrNotFound
	}
	found, err := decodeAll(snaps, setBusinessID)
	if err != nil {
		return nil, err
	}
	return &found[0], nil
}

// Create stores a new business, allocating an id when none is set.
func (r *businessRepository) Create(ctx context.Context, business *model.Business) error {
	if business.ID != "" {
		return r.Save(ctx, business)
	}
	doc, err := docstore.Encode(business)
	if err != nil {
		return err
	}
	id, err := r.coll.Add(ctx, doc)
	if err != nil {
		return fmt.Errorf("create business: %w", err)
	}
	business.ID = id
	return r.coll.Update(ctx, id, map[string]any{"business_id": id})
}

// Save writes the full record under business.ID.
func (r *businessRepository) Save(ctx context.Context, business *model.Business) error {
	if business.ID == "" {
		return fmt.Errorf("save business: empty id")
	}
	doc, err := docstore.Encode(business)
	if err != nil {
		return err
	}
	return r.coll.Set(ctx, business.ID, doc)
}

func (r *businessRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.coll.Update(ctx, id, fields)
}

func (r *businessRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}
