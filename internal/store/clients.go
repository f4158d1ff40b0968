package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"legalcrm/internal/errs"
	"legalcrm/internal/models"
)

// CreateClient inserts a new client. Email is unique across clients.
func (s *Store) CreateClient(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (full_name, email, phone, address, identity_doc, is_collaborator)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, client, query,
		client.FullName, client.Email, client.Phone, client.Address,
		client.IdentityDoc, client.IsCollaborator)
	if isUniqueViolation(err) {
		return errs.NewValidationError("email", "a client with this email already exists")
	}
	return err
}

// GetClientByID retrieves a client by ID
func (s *Store) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := s.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("client", id)
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetClientByEmail retrieves a client by email, nil if none exists
func (s *Store) GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	var client models.Client
	err := s.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE email = $1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ListClients retrieves all clients
func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.SelectContext(ctx, &clients, "SELECT * FROM clients ORDER BY full_name")
	return clients, err
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
