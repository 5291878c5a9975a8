package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/server/http/dto"
	"github.com/polkiloo/solarstore/internal/usecase"
)

// CatalogHandler serves the product catalog.
type CatalogHandler struct {
	facade CatalogFacade
}

func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// List handles GET /api/products.
func (h *CatalogHandler) List(c *gin.Context) {
	filter := model.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Featured: c.Query("featured") == "true",
		Sort:     model.ProductSort(c.Query("sort")),
		Page:     parsePage(c),
	}
	var ok bool
	if filter.MinPrice, ok = queryDecimal(c, "minPrice"); !ok {
		return
	}
	if filter.MaxPrice, ok = queryDecimal(c, "maxPrice"); !ok {
		return
	}

	products, total, err := h.facade.Products(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ProductListResponse{
		Products:   dto.NewProductList(products),
		Pagination: dto.NewPagination(filter.Page, total),
	})
}

// Get handles GET /api/products/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewProductResponse(product))
}

// GetBySlug handles GET /api/products/slug/:slug.
func (h *CatalogHandler) GetBySlug(c *gin.Context) {
	product, err := h.facade.ProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewProductResponse(product))
}

// Related handles GET /api/products/:id/related.
func (h *CatalogHandler) Related(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	products, err := h.facade.RelatedProducts(c.Request.Context(), id, queryInt(c, "limit"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewProductList(products))
}

// Recommended handles GET /api/products/recommended.
func (h *CatalogHandler) Recommended(c *gin.Context) {
	products, err := h.facade.RecommendedProducts(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewProductList(products))
}

// Categories handles GET /api/categories.
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.facade.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, dto.NewCategoryResponse(&categories[i]))
	}
	respond(c, http.StatusOK, out)
}

// Create handles POST /api/admin/products.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.facade.CreateProduct(c.Request.Context(), productInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.NewProductResponse(product))
}

// Update handles PUT /api/admin/products/:id.
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.facade.UpdateProduct(c.Request.Context(), id, productInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewProductResponse(product))
}

// CreateCategory handles POST /api/admin/categories.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.facade.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.NewCategoryResponse(category))
}

func productInput(req dto.ProductRequest) usecase.ProductInput {
	return usecase.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
		Specs:       req.Specs,
		Featured:    req.Featured,
	}
}

func queryDecimal(c *gin.Context, name string) (decimal.NullDecimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return decimal.NullDecimal{}, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		badRequest(c, "invalid "+name)
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}
