package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guialocal/guialocal-backend/internal/app/service"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Label string `json:"label" binding:"required"`
}

// ListCategories GET /categories. Never fails; defaults are served when the
// store is slow or down.
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories := ctrl.categoryService.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory POST /admin/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	category, err := ctrl.categoryService.Create(c.Request.Context(), actor, req.Label)
	if err != nil {
		respondError(c, err, "create category", map[string]interface{}{"label": req.Label})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// DeleteCategory DELETE /admin/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := ctrl.categoryService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "delete category", map[string]interface{}{"category_id": c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoria removida com sucesso"})
}
