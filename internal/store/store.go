package store

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Tx is the transaction-scoped slice of the persistence contract the order
// lifecycle engine runs against. Every method sees the uncommitted writes of
// the same transaction. Lookup methods return (nil, nil) when the row does
// not exist.
type Tx interface {
	ProductByID(ctx context.Context, id int64) (*models.Product, error)
	ProductByName(ctx context.Context, nom string) (*models.Product, error)
	// AdjustStock applies a relative stock delta (negative = reserve,
	// positive = release) so concurrent adjustments serialize on the row.
	AdjustStock(ctx context.Context, productID int64, delta int) error

	InsertOrder(ctx context.Context, o *models.Order) error
	OrderByID(ctx context.Context, id int64) (*models.Order, error)
	UpdateOrderAddress(ctx context.Context, orderID int64, adresse string) error
	UpdateOrderAmount(ctx context.Context, orderID int64, montant float64) error
	// UpdateOrderStatus returns the number of rows affected.
	UpdateOrderStatus(ctx context.Context, orderID int64, statut string) (int64, error)

	Line(ctx context.Context, orderID, productID int64) (*models.OrderLine, error)
	InsertLine(ctx context.Context, l *models.OrderLine) error
	// GrowLine adds quantite and prixTotal to an existing line, leaving the
	// snapshotted unit price untouched.
	GrowLine(ctx context.Context, lineID int64, quantite int, prixTotal float64) error
	DeleteLine(ctx context.Context, lineID int64) error
	SumLineTotals(ctx context.Context, orderID int64) (float64, error)
}

// Store is the persistence contract consumed by the service layer.
type Store interface {
	// WithTx runs fn inside a single transaction; any error rolls the whole
	// transaction back.
	WithTx(ctx context.Context, fn func(Tx) error) error

	ProductByID(ctx context.Context, id int64) (*models.Product, error)
	ProductByName(ctx context.Context, nom string) (*models.Product, error)
	Products(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	Categories(ctx context.Context) ([]models.Category, error)

	OrderByID(ctx context.Context, id int64) (*models.Order, error)
	OrdersByClient(ctx context.Context, clientID int64) ([]models.Order, error)
	LinesByOrder(ctx context.Context, orderID int64) ([]models.OrderLine, error)

	CreateClient(ctx context.Context, c *models.Client) error
	ClientByEmail(ctx context.Context, email string) (*models.Client, error)
	Clients(ctx context.Context) ([]models.Client, error)
}

// DB is the PostgreSQL implementation of Store.
type DB struct {
	db *sqlx.DB
	queries
}

// Open connects to the database and verifies the connection.
func Open(databaseURL string) (*DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db: db, queries: queries{ext: db}}, nil
}

// Close closes the database connection
func (s *DB) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a database transaction, rolling back on error.
func (s *DB) WithTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(queries{ext: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

var _ Store = (*DB)(nil)
