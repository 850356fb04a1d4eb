package service

import (
	"context"
	"net/mail"

	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// ClientService handles customer registration and login. Passwords are
// treated as opaque strings end to end.
type ClientService struct {
	store  store.Store
	logger *zap.Logger
}

// NewClientService creates a new client service.
func NewClientService(st store.Store) *ClientService {
	return &ClientService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// RegisterRequest represents a registration payload.
type RegisterRequest struct {
	Nom   string `json:"nom" binding:"required"`
	Email string `json:"email" binding:"required"`
	Mdp   string `json:"mdp" binding:"required"`
}

// LoginRequest represents a login payload.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
	Mdp   string `json:"mdp" binding:"required"`
}

// Register creates a new client after checking email shape and uniqueness.
func (cs *ClientService) Register(ctx context.Context, req *RegisterRequest) (*models.Client, error) {
	if req.Nom == "" || req.Email == "" || req.Mdp == "" {
		return nil, Errf(KindValidation, "nom, email and mdp are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, Errf(KindValidation, "invalid email format")
	}

	existing, err := cs.store.ClientByEmail(ctx, req.Email)
	if err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to check email uniqueness")
	}
	if existing != nil {
		return nil, Errf(KindDuplicateEmail, "email already in use")
	}

	c := &models.Client{Nom: req.Nom, Email: req.Email, Mdp: req.Mdp}
	if err := cs.store.CreateClient(ctx, c); err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to create client")
	}

	cs.logger.Info("Client registered", zap.Int64("client_id", c.ID))
	return c, nil
}

// Login checks the credentials and returns the matching client.
func (cs *ClientService) Login(ctx context.Context, req *LoginRequest) (*models.Client, error) {
	if req.Email == "" || req.Mdp == "" {
		return nil, Errf(KindValidation, "email and mdp are required")
	}

	c, err := cs.store.ClientByEmail(ctx, req.Email)
	if err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to load client")
	}
	if c == nil || c.Mdp != req.Mdp {
		return nil, Errf(KindBadCredentials, "invalid credentials")
	}
	return c, nil
}

// Clients retrieves all clients.
func (cs *ClientService) Clients(ctx context.Context) ([]models.Client, error) {
	clients, err := cs.store.Clients(ctx)
	if err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to load clients")
	}
	return clients, nil
}
