package store

import (
	"context"
	"database/sql"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
)

// InsertOrder inserts an order and fills in its generated id.
func (q queries) InsertOrder(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO commande (id_client, statut, montant, adresse_livraison)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return sqlx.GetContext(ctx, q.ext, &o.ID, query,
		o.ClientID, o.Statut, o.Montant, o.AdresseLivraison)
}

// OrderByID retrieves an order by id, nil when absent.
func (q queries) OrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := sqlx.GetContext(ctx, q.ext, &o, "SELECT * FROM commande WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OrdersByClient retrieves a client's orders, newest first.
func (q queries) OrdersByClient(ctx context.Context, clientID int64) ([]models.Order, error) {
	var orders []models.Order
	err := sqlx.SelectContext(ctx, q.ext, &orders,
		"SELECT * FROM commande WHERE id_client = $1 ORDER BY id DESC", clientID)
	return orders, err
}

// UpdateOrderAddress overwrites only the delivery address.
func (q queries) UpdateOrderAddress(ctx context.Context, orderID int64, adresse string) error {
	_, err := q.ext.ExecContext(ctx,
		"UPDATE commande SET adresse_livraison = $1 WHERE id = $2", adresse, orderID)
	return err
}

// UpdateOrderAmount overwrites only the cached montant.
func (q queries) UpdateOrderAmount(ctx context.Context, orderID int64, montant float64) error {
	_, err := q.ext.ExecContext(ctx,
		"UPDATE commande SET montant = $1 WHERE id = $2", montant, orderID)
	return err
}

// UpdateOrderStatus overwrites only the statut column and reports how many
// rows were touched.
func (q queries) UpdateOrderStatus(ctx context.Context, orderID int64, statut string) (int64, error) {
	res, err := q.ext.ExecContext(ctx,
		"UPDATE commande SET statut = $1 WHERE id = $2", statut, orderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Line retrieves the line for an (order, product) pair, nil when absent.
func (q queries) Line(ctx context.Context, orderID, productID int64) (*models.OrderLine, error) {
	var l models.OrderLine
	err := sqlx.GetContext(ctx, q.ext, &l,
		"SELECT * FROM ligne_commande WHERE id_commande = $1 AND id_produit = $2", orderID, productID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// InsertLine inserts an order line and fills in its generated id.
func (q queries) InsertLine(ctx context.Context, l *models.OrderLine) error {
	query := `
		INSERT INTO ligne_commande (id_commande, id_produit, quantite, prix_unitaire, prix_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return sqlx.GetContext(ctx, q.ext, &l.ID, query,
		l.OrderID, l.ProductID, l.Quantite, l.PrixUnitaire, l.PrixTotal)
}

// GrowLine adds quantity and total to an existing line. The stored unit
// price is left as snapshotted when the line was created.
func (q queries) GrowLine(ctx context.Context, lineID int64, quantite int, prixTotal float64) error {
	_, err := q.ext.ExecContext(ctx,
		"UPDATE ligne_commande SET quantite = quantite + $1, prix_total = prix_total + $2 WHERE id = $3",
		quantite, prixTotal, lineID)
	return err
}

// DeleteLine removes an order line by id.
func (q queries) DeleteLine(ctx context.Context, lineID int64) error {
	_, err := q.ext.ExecContext(ctx, "DELETE FROM ligne_commande WHERE id = $1", lineID)
	return err
}

// SumLineTotals recomputes the order total from its remaining lines.
func (q queries) SumLineTotals(ctx context.Context, orderID int64) (float64, error) {
	var total float64
	err := sqlx.GetContext(ctx, q.ext, &total,
		"SELECT COALESCE(SUM(prix_total), 0) FROM ligne_commande WHERE id_commande = $1", orderID)
	return total, err
}

// LinesByOrder retrieves the lines of an order with the product name joined
// in for display.
func (q queries) LinesByOrder(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := sqlx.SelectContext(ctx, q.ext, &lines, `
		SELECT lc.*, p.nom AS produit_nom
		FROM ligne_commande lc
		JOIN produit p ON p.id = lc.id_produit
		WHERE lc.id_commande = $1
		ORDER BY lc.id`, orderID)
	return lines, err
}
