package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
)

type catalogRepository struct {
	storage *Storage
}

const productColumns = `p.id, COALESCE(p.category_id, 0), COALESCE(c.name, ''), p.name, p.slug, p.description, p.price, p.stock,
       p.images, p.specs, p.featured, p.rating_average, p.rating_count, p.created_at, p.updated_at`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var (
		p      model.Product
		images []byte
		specs  []byte
	)
	if err := row.Scan(&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
		&images, &specs, &p.Featured, &p.RatingAverage, &p.RatingCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("decode product images: %w", err)
		}
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specs); err != nil {
			return nil, fmt.Errorf("decode product specs: %w", err)
		}
	}
	return &p, nil
}

func collectProducts(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]model.Product, error) {
	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// whereBuilder accumulates positional SQL predicates.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) addRaw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// paginate appends limit and offset arguments and returns their clause.
func (w *whereBuilder) paginate(page model.Page) string {
	w.args = append(w.args, page.Limit(), page.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

func productOrder(sort model.ProductSort) string {
	switch sort {
	case model.SortPriceAsc:
		return " ORDER BY p.price ASC, p.id"
	case model.SortPriceDesc:
		return " ORDER BY p.price DESC, p.id"
	case model.SortRating:
		return " ORDER BY p.rating_average DESC, p.rating_count DESC, p.id"
	default:
		return " ORDER BY p.created_at DESC, p.id DESC"
	}
}

func (r *catalogRepository) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	var where whereBuilder
	if filter.CategoryID > 0 {
		where.add("p.category_id = ?", filter.CategoryID)
	}
	if filter.Category != "" {
		where.add("c.slug = ?", filter.Category)
	}
	if filter.Search != "" {
		where.add("(p.name ILIKE ? OR p.description ILIKE ?)", "%"+filter.Search+"%")
	}
	if filter.MinPrice.Valid {
		where.add("p.price >= ?", filter.MinPrice.Decimal)
	}
	if filter.MaxPrice.Valid {
		where.add("p.price <= ?", filter.MaxPrice.Decimal)
	}
	if filter.Featured {
		where.addRaw("p.featured")
	}

	var total int
	countQuery := `SELECT COUNT(*)` + productFrom + where.sql()
	if err := r.storage.pool.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + productFrom + where.sql() + productOrder(filter.Sort) + where.paginate(filter.Page)
	rows, err := r.storage.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *catalogRepository) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := scanProduct(r.storage.pool.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *catalogRepository) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	p, err := scanProduct(r.storage.pool.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.slug=$1`, slug))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *catalogRepository) RelatedProducts(ctx context.Context, product *model.Product, limit int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + productFrom + ` WHERE p.category_id=$1 AND p.id<>$2
              ORDER BY p.rating_average DESC, p.rating_count DESC, p.id LIMIT $3`
	rows, err := r.storage.pool.Query(ctx, query, product.CategoryID, product.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *catalogRepository) RecommendedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + productFrom + `
              ORDER BY p.featured DESC, p.rating_average DESC, p.created_at DESC LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recommended products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func encodeProductDocs(p *model.Product) ([]byte, []byte, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	specs := p.Specs
	if specs == nil {
		specs = map[string]string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, nil, err
	}
	specsJSON, err := json.Marshal(specs)
	if err != nil {
		return nil, nil, err
	}
	return imagesJSON, specsJSON, nil
}

func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}

func (r *catalogRepository) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	images, specs, err := encodeProductDocs(product)
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}
	const query = `INSERT INTO products (category_id, name, slug, description, price, stock, images, specs, featured)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	var id int64
	err = r.storage.pool.QueryRow(ctx, query, nullableID(product.CategoryID), product.Name, product.Slug, product.Description,
		product.Price, product.Stock, images, specs, product.Featured).Scan(&id)
	if err != nil {
		return nil, mapError(err)
	}
	return r.GetProduct(ctx, id)
}

func (r *catalogRepository) UpdateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	images, specs, err := encodeProductDocs(product)
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}
	const query = `UPDATE products SET category_id=$1, name=$2, slug=$3, description=$4, price=$5, stock=$6,
                   images=$7, specs=$8, featured=$9, updated_at=NOW() WHERE id=$10`
	tag, err := r.storage.pool.Exec(ctx, query, nullableID(product.CategoryID), product.Name, product.Slug, product.Description,
		product.Price, product.Stock, images, specs, product.Featured, product.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return r.GetProduct(ctx, product.ID)
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	const query = `SELECT id, name, slug, description, created_at FROM categories ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var result []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	const query = `INSERT INTO categories (name, slug, description) VALUES ($1, $2, $3) RETURNING id, created_at`
	created := *category
	if err := r.storage.pool.QueryRow(ctx, query, category.Name, category.Slug, category.Description).Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}
