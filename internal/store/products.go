package store

import (
	"context"
	"database/sql"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
)

// queries implements the query surface of the contract against either the
// connection pool or an open transaction.
type queries struct {
	ext sqlx.ExtContext
}

var _ Tx = queries{}

// ProductByID retrieves a product by id, nil when absent.
func (q queries) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := sqlx.GetContext(ctx, q.ext, &p, "SELECT * FROM produit WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductByName retrieves a product by its exact name, nil when absent.
func (q queries) ProductByName(ctx context.Context, nom string) (*models.Product, error) {
	var p models.Product
	err := sqlx.GetContext(ctx, q.ext, &p, "SELECT * FROM produit WHERE nom = $1", nom)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Products retrieves all products, newest first.
func (q queries) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := sqlx.SelectContext(ctx, q.ext, &products, "SELECT * FROM produit ORDER BY id DESC")
	return products, err
}

// CreateProduct inserts a product and fills in its generated id.
func (q queries) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO produit (nom, description, prix, image, stock, actif, id_categorie)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	return sqlx.GetContext(ctx, q.ext, &p.ID, query,
		p.Nom, p.Description, p.Prix, p.Image, p.Stock, p.Actif, p.CategoryID)
}

// AdjustStock applies a relative stock delta as a single row update.
func (q queries) AdjustStock(ctx context.Context, productID int64, delta int) error {
	_, err := q.ext.ExecContext(ctx,
		"UPDATE produit SET stock = stock + $1 WHERE id = $2", delta, productID)
	return err
}

// Categories retrieves all categories.
func (q queries) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := sqlx.SelectContext(ctx, q.ext, &categories, "SELECT * FROM categorie ORDER BY id")
	return categories, err
}
