package sqlstore

import (
	"context"
	"time"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

type clientRepository struct{ s *Store }

func NewClientRepository(s *Store) repository.ClientRepository {
	return &clientRepository{s: s}
}

func (r *clientRepository) Create(ctx context.Context, c model.Client) (model.Client, error) {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	id, err := r.s.insert(ctx,
		`INSERT INTO client (email, first_name, last_name, currency, created_at, updated_at)
		 VALUES (:email, :first_name, :last_name, :currency, :created_at, :updated_at)`, c)
	if err != nil {
		return model.Client{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (model.Client, error) {
	var out model.Client
	err := r.s.get(ctx, &out,
		`SELECT id, email, first_name, last_name, currency, created_at, updated_at FROM client WHERE id = :id`,
		map[string]any{"id": id})
	return out, err
}

var _ repository.ClientRepository = (*clientRepository)(nil)
