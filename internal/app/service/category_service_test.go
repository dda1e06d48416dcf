package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
)

func labels(categories []model.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Label)
	}
	return out
}

func TestCategoryService_ListMergesSources(t *testing.T) {
	repos := newTestRepos()
	svc := NewCategoryService(repos.categories, repos.businesses, time.Second, fixedClock(10, 0))
	ctx := context.Background()

	_, err := svc.Create(ctx, adminActor, "Sorveteria")
	require.NoError(t, err)
	_, err = svc.Create(ctx, adminActor, "Padaria")
	require.NoError(t, err)
	seedBusinesses(t, repos.businesses,
		model.Business{ID: "1", Name: "A", Category: "Papelaria"},
		model.Business{ID: "2", Name: "B", Category: "Farmacia"},
		model.Business{ID: "3", Name: "C", Category: "Açougue"},
		model.Business{ID: "4", Name: "D", Category: ""},
	)

	got := labels(svc.List(ctx))
	want := append(append([]string{}, DefaultCategories...), "Sorveteria", "Açougue", "Papelaria")
	assert.Equal(t, want, got)
}

func TestCategoryService_ListFallsBackToDefaults(t *testing.T) {
	repos := newTestRepos()
	svc := NewCategoryService(repos.categories, failingBusinessRepo{}, time.Second, fixedClock(10, 0))

	got := labels(svc.List(context.Background()))
	assert.Equal(t, DefaultCategories, got)
}

type slowBusinessRepo struct {
	repository.BusinessRepository
	delay time.Duration
}

func (s slowBusinessRepo) FindAll(ctx context.Context) ([]model.Business, error) {
	select {
	case <-time.After(s.delay):
		return []model.Business{{Category: "Lenta"}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCategoryService_ListTimesOut(t *testing.T) {
	repos := newTestRepos()
	svc := NewCategoryService(repos.categories, slowBusinessRepo{delay: time.Second}, 20*time.Millisecond, fixedClock(10, 0))

	started := time.Now()
	got := labels(svc.List(context.Background()))
	assert.Equal(t, DefaultCategories, got)
	assert.Less(t, time.Since(started), 500*time.Millisecond)
}

func TestCategoryService_CreateAndDelete(t *testing.T) {
	repos := newTestRepos()
	svc := NewCategoryService(repos.categories, repos.businesses, time.Second, fixedClock(10, 0))
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerActor, "Floricultura")
	assert.ErrorIs(t, err, ErrAdminOnly)
	_, err = svc.Create(ctx, adminActor, " !! ")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	created, err := svc.Create(ctx, adminActor, "Material de Construção")
	require.NoError(t, err)
	assert.Equal(t, "material-de-construcao", created.ID)

	assert.ErrorIs(t, svc.Delete(ctx, ownerActor, created.ID), ErrAdminOnly)
	require.NoError(t, svc.Delete(ctx, adminActor, created.ID))

	stored, err := repos.categories.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestMapCategory(t *testing.T) {
	tests := []struct {
		types []string
		want  string
	}{
		{[]string{"bakery", "store", "food"}, "Padaria"},
		{[]string{"store", "pharmacy"}, "Farmácia"},
		{[]string{"restaurant", "bar"}, "Restaurante"},
		{[]string{"store", "point_of_interest"}, "Loja"},
		{[]string{"bicycle_store"}, "Bicycle Store"},
		{nil, FallbackCategory},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapCategory(tt.types), "%v", tt.types)
	}
}
