package store

import (
	"context"
	"database/sql"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateClient inserts a client and fills in its generated id.
func (q queries) CreateClient(ctx context.Context, c *models.Client) error {
	query := `
		INSERT INTO client (nom, email, mdp)
		VALUES ($1, $2, $3)
		RETURNING id`

	return sqlx.GetContext(ctx, q.ext, &c.ID, query, c.Nom, c.Email, c.Mdp)
}

// ClientByEmail retrieves a client by email, nil when absent.
func (q queries) ClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	var c models.Client
	err := sqlx.GetContext(ctx, q.ext, &c, "SELECT * FROM client WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Clients retrieves all clients.
func (q queries) Clients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := sqlx.SelectContext(ctx, q.ext, &clients, "SELECT * FROM client ORDER BY id")
	return clients, err
}
