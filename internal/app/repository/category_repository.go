package repository

import (
	"context"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/docstore"
)

// CategoryRepository holds admin-created categories. Defaults and categories
// observed on businesses are merged in by the service.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]model.Category, error)
	Save(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	coll docstore.Collection
}

func NewCategoryRepository(store docstore.Store) CategoryRepository {
	return &categoryRepository{coll: store.Collection(CategoriesCollection)}
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	snaps, err := r.coll.Query(ctx, docstore.NewQuery().OrderBy("order", false))
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, func(c *model.Category, id string) { c.ID = id })
}

func (r *categoryRepository) Save(ctx context.Context, category *model.Category) error {
	doc, err := docstore.Encode(category)
	if err != nil {
		return err
	}
	return r.coll.Set(ctx, category.ID, doc)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}
