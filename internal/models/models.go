package models

// Product represents a catalog product. Column names follow the legacy
// French schema (table produit).
type Product struct {
	ID          int64   `db:"id" json:"id"`
	Nom         string  `db:"nom" json:"nom"`
	Description string  `db:"description" json:"description"`
	Prix        float64 `db:"prix" json:"prix"`
	Image       string  `db:"image" json:"image"`
	Stock       int     `db:"stock" json:"stock"`
	Actif       bool    `db:"actif" json:"actif"`
	CategoryID  *int64  `db:"id_categorie" json:"id_categorie,omitempty"`
}

// Category represents a product category (table categorie).
type Category struct {
	ID  int64  `db:"id" json:"id"`
	Nom string `db:"nom" json:"nom"`
}

// Client represents a registered customer (table client). The password is
// stored as an opaque string and never serialized.
type Client struct {
	ID    int64  `db:"id" json:"id"`
	Nom   string `db:"nom" json:"nom"`
	Email string `db:"email" json:"email"`
	Mdp   string `db:"mdp" json:"-"`
}

// Order represents a customer order (table commande). Montant is a cached
// aggregate of the line totals, maintained by the lifecycle engine.
type Order struct {
	ID               int64       `db:"id" json:"id"`
	ClientID         int64       `db:"id_client" json:"id_client"`
	Statut           string      `db:"statut" json:"statut"`
	Montant          float64     `db:"montant" json:"montant"`
	AdresseLivraison string      `db:"adresse_livraison" json:"adresse_livraison"`
	Lignes           []OrderLine `db:"-" json:"lignes,omitempty"`
}

// OrderLine represents one product within an order (table ligne_commande).
// PrixUnitaire is the price snapshot taken when the line was created; it is
// never renegotiated on later merges.
type OrderLine struct {
	ID           int64   `db:"id" json:"id"`
	OrderID      int64   `db:"id_commande" json:"id_commande"`
	ProductID    int64   `db:"id_produit" json:"id_produit"`
	Quantite     int     `db:"quantite" json:"quantite"`
	PrixUnitaire float64 `db:"prix_unitaire" json:"prix_unitaire"`
	PrixTotal    float64 `db:"prix_total" json:"prix_total"`
	ProduitNom   string  `db:"produit_nom" json:"produit_nom,omitempty"`
}

// Order statuses, stored verbatim in the statut column.
const (
	StatusPending   = "en attente"
	StatusPaid      = "payée"
	StatusShipped   = "expédiée"
	StatusDelivered = "livrée"
	StatusCancelled = "annulée"
)

// ValidStatus reports whether s is one of the five known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
