package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/pkg/logger"
	"github.com/guialocal/guialocal-backend/pkg/util"
)

var ErrInvalidCategory = errors.New("nome da categoria é obrigatório")

// DefaultCategories are always offered, ahead of admin and observed ones.
var DefaultCategories = []string{
	"Restaurante",
	"Padaria",
	"Mercado",
	"Farmácia",
	"Salão de Beleza",
	"Academia",
	"Pet Shop",
	"Oficina Mecânica",
	"Loja de Roupas",
	"Serviços",
}

type CategoryService interface {
	// List merges defaults, admin categories and categories seen on
	// businesses. A read slower than the configured timeout, or failing,
	// yields the defaults alone.
	List(ctx context.Context) []model.Category
	Create(ctx context.Context, actor Actor, label string) (*model.Category, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type categoryService struct {
	categories repository.CategoryRepository
	businesses repository.BusinessRepository
	timeout    time.Duration
	clock      Clock
}

func NewCategoryService(categories repository.CategoryRepository, businesses repository.BusinessRepository, timeout time.Duration, clock Clock) CategoryService {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &categoryService{
		categories: categories,
		businesses: businesses,
		timeout:    timeout,
		clock:      clock,
	}
}

func defaultCategoryList() []model.Category {
	out := make([]model.Category, 0, len(DefaultCategories))
	for i, label := range DefaultCategories {
		out = append(out, model.Category{ID: util.Slugify(label), Label: label, Order: i})
	}
	return out
}

func (s *categoryService) List(ctx context.Context) []model.Category {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		admin      []model.Category
		businesses []model.Business
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		admin, err = s.categories.FindAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		businesses, err = s.businesses.FindAll(gctx)
		return err
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Warn("Category read failed, serving defaults", map[string]interface{}{
				"error": err.Error(),
			})
			return defaultCategoryList()
		}
	case <-ctx.Done():
		logger.Warn("Category read timed out, serving defaults", map[string]interface{}{
			"timeout": s.timeout.String(),
		})
		return defaultCategoryList()
	}

	return mergeCategories(admin, businesses)
}

// mergeCategories keys entries by slug so "Farmacia" and "Farmácia" collapse
// into the first label seen.
func mergeCategories(admin []model.Category, businesses []model.Business) []model.Category {
	out := defaultCategoryList()
	seen := make(map[string]struct{}, len(out))
	for _, c := range out {
		seen[c.ID] = struct{}{}
	}
	add := func(label string) {
		label = strings.TrimSpace(label)
		key := util.Slugify(label)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, model.Category{ID: key, Label: label, Order: len(out)})
	}

	for _, c := range admin {
		add(c.Label)
	}

	var observed []string
	for _, b := range businesses {
		observed = append(observed, b.Category)
	}
	sort.Strings(observed)
	for _, label := range observed {
		add(label)
	}
	return out
}

func (s *categoryService) Create(ctx context.Context, actor Actor, label string) (*model.Category, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	label = strings.TrimSpace(label)
	id := util.Slugify(label)
	if id == "" {
		return nil, ErrInvalidCategory
	}

	existing, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	category := &model.Category{
		ID:        id,
		Label:     label,
		Order:     len(existing),
		CreatedAt: s.clock.Now().UnixMilli(),
	}
	if err := s.categories.Save(ctx, category); err != nil {
		logger.Error("Failed to save category", err, map[string]interface{}{
			"category": label,
		})
		return nil, err
	}
	logger.Info("Category created", map[string]interface{}{
		"category_id": id,
		"admin_id":    actor.UserID,
	})
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	return s.categories.Delete(ctx, id)
}
