// Package catalog exposes the read-mostly product list sold by the bot.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/fitbot/core/logger"
	"github.com/m3rciful/fitbot/internal/store"
)

const (
	table = "Products"
	// schema mirrors migrations/0001_create_products.up.sql.
	schema = "id INTEGER PRIMARY KEY, title TEXT NOT NULL, description TEXT, price INTEGER NOT NULL, image TEXT"
)

// Product is one catalog entry. The storage-assigned id stays internal.
type Product struct {
	Title       string
	Description string
	Price       int64
	Image       string
}

// Repository reads and seeds the product catalog.
type Repository struct {
	store *store.Store
}

// NewRepository builds a catalog repository over the record store.
func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s}
}

// EnsureSchema creates the Products table if it is missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	return r.store.EnsureTable(ctx, table, schema)
}

// LoadAll fetches every product in insertion order with internal ids
// stripped.
func (r *Repository) LoadAll(ctx context.Context) ([]Product, error) {
	rows, err := r.store.FetchWhere(ctx, table, "")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var row struct {
			ID          int64  `db:"id"`
			Title       string `db:"title"`
			Description string `db:"description"`
			Price       int64  `db:"price"`
			Image       string `db:"image"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, Product{
			Title:       row.Title,
			Description: row.Description,
			Price:       row.Price,
			Image:       row.Image,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

// Seed inserts the sample products when the catalog is empty.
func (r *Repository) Seed(ctx context.Context, samples []Product) error {
	existing, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Debug(ctx, "db.seed", "catalog.skip",
			slog.Int("existing", len(existing)),
		)
		return nil
	}

	columns := []string{"title", "description", "price", "image"}
	for _, p := range samples {
		if _, err := r.store.Insert(ctx, table, columns, p.Title, p.Description, p.Price, p.Image); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Title, err)
		}
	}
	logger.Info(ctx, "db.seed", "catalog.seeded",
		slog.Int("products", len(samples)),
	)
	return nil
}

// SampleProducts returns the default catalog rows used on first start.
func SampleProducts() []Product {
	return []Product{
		{Title: "ProteinBar", Description: "Chocolate protein bar, 40 g", Price: 100, Image: "img/product1.jpg"},
		{Title: "Creatine", Description: "Creatine monohydrate, 300 g", Price: 200, Image: "img/product2.jpg"},
		{Title: "Vitamins", Description: "Daily multivitamin complex", Price: 300, Image: "img/product3.jpg"},
		{Title: "Shaker", Description: "700 ml shaker bottle", Price: 400, Image: "img/product4.jpg"},
	}
}
