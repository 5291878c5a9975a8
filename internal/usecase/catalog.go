package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
)

const (
	defaultRelatedLimit = 4
	maxRelatedLimit     = 20
)

// ProductInput is the admin product form.
type ProductInput struct {
	CategoryID  int64
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Images      []string
	Specs       map[string]string
	Featured    bool
}

// CatalogUseCase serves product browsing and catalog maintenance.
type CatalogUseCase struct {
	catalog repository.CatalogRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(catalog repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{catalog: catalog}
}

// ListProducts returns one page of matching products and the total count.
func (u *CatalogUseCase) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Page = model.NewPage(filter.Page.Number, filter.Page.Size)
	switch filter.Sort {
	case model.SortNewest, model.SortPriceAsc, model.SortPriceDesc, model.SortRating:
	default:
		filter.Sort = model.SortNewest
	}
	return u.catalog.ListProducts(ctx, filter)
}

func (u *CatalogUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return u.catalog.GetProduct(ctx, id)
}

func (u *CatalogUseCase) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return u.catalog.GetProductBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// RelatedProducts returns other products of the same category.
func (u *CatalogUseCase) RelatedProducts(ctx context.Context, id int64, limit int) ([]model.Product, error) {
	product, err := u.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.catalog.RelatedProducts(ctx, product, clampLimit(limit))
}

// RecommendedProducts returns featured products, best rated first.
func (u *CatalogUseCase) RecommendedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	return u.catalog.RecommendedProducts(ctx, clampLimit(limit))
}

func (u *CatalogUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return u.catalog.ListCategories(ctx)
}

// CreateProduct validates and stores a new product.
func (u *CatalogUseCase) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	product, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	return u.catalog.CreateProduct(ctx, product)
}

// UpdateProduct replaces the editable fields of a product.
func (u *CatalogUseCase) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*model.Product, error) {
	if _, err := u.catalog.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	product, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	product.ID = id
	return u.catalog.UpdateProduct(ctx, product)
}

// CreateCategory stores a category with a slug derived from its name.
func (u *CatalogUseCase) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if name == "" || slug == "" {
		return nil, domainErrors.NewValidationError("name")
	}
	return u.catalog.CreateCategory(ctx, &model.Category{Name: name, Slug: slug, Description: strings.TrimSpace(description)})
}

func buildProduct(in ProductInput) (*model.Product, error) {
	name := strings.TrimSpace(in.Name)
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}

	var invalid []string
	if name == "" || slug == "" {
		invalid = append(invalid, "name")
	}
	if in.Price.IsNegative() {
		invalid = append(invalid, "price")
	}
	if in.Stock < 0 {
		invalid = append(invalid, "stock")
	}
	if err := domainErrors.NewValidationError(invalid...); err != nil {
		return nil, err
	}

	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}

	return &model.Product{
		CategoryID:  in.CategoryID,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		Price:       model.RoundMoney(in.Price),
		Stock:       in.Stock,
		Images:      images,
		Specs:       in.Specs,
		Featured:    in.Featured,
	}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultRelatedLimit
	}
	if limit > maxRelatedLimit {
		return maxRelatedLimit
	}
	return limit
}
