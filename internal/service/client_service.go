package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"legalcrm/internal/errs"
	"legalcrm/internal/models"
	"legalcrm/internal/store"
	"legalcrm/internal/util"
)

// ClientService manages the client registry orders are created against.
type ClientService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(store *store.Store) *ClientService {
	return &ClientService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateClientRequest represents a client registration
type CreateClientRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	IdentityDoc    string `json:"identity_doc"`
	IsCollaborator bool   `json:"is_collaborator"`
}

// CreateClient registers a client; email is the natural key
func (cs *ClientService) CreateClient(ctx context.Context, req *CreateClientRequest) (*models.Client, error) {
	ctx, span := util.StartSpan(ctx, "ClientService.CreateClient")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, errs.NewValidationError("email", "email is required")
	}

	if existing, err := cs.store.GetClientByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errs.NewValidationError("email", "a client with this email already exists")
	}

	client := &models.Client{
		FullName:       strings.TrimSpace(req.FullName),
		Email:          email,
		Phone:          req.Phone,
		Address:        req.Address,
		IdentityDoc:    req.IdentityDoc,
		IsCollaborator: req.IsCollaborator,
	}

	// the unique constraint still backs the pre-check against races
	if err := cs.store.CreateClient(ctx, client); err != nil {
		return nil, err
	}

	cs.logger.Info("Client created",
		zap.Int64("client_id", client.ID),
		zap.String("email", client.Email))
	return client, nil
}

// GetClient retrieves a client by ID
func (cs *ClientService) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	return cs.store.GetClientByID(ctx, id)
}

// ListClients retrieves all clients
func (cs *ClientService) ListClients(ctx context.Context) ([]models.Client, error) {
	return cs.store.ListClients(ctx)
}
