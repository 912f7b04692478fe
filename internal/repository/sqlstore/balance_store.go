package sqlstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

const balanceColumns = `m.id, m.client_id, m.type, m.rel_id, m.description, m.amount, m.created_at, m.updated_at`

type balanceRepository struct{ s *Store }

func NewBalanceRepository(s *Store) repository.BalanceRepository {
	return &balanceRepository{s: s}
}

func (r *balanceRepository) Create(ctx context.Context, b model.ClientBalance) (model.ClientBalance, error) {
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	id, err := r.s.insert(ctx,
		`INSERT INTO client_balance (client_id, type, rel_id, description, amount, created_at, updated_at)
		 VALUES (:client_id, :type, :rel_id, :description, :amount, :created_at, :updated_at)`, b)
	if err != nil {
		return model.ClientBalance{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *balanceRepository) GetByID(ctx context.Context, id int64) (model.ClientBalance, error) {
	var out model.ClientBalance
	err := r.s.get(ctx, &out,
		`SELECT `+balanceColumns+`, COALESCE(c.currency, '') AS currency
		 FROM client_balance AS m
		 LEFT JOIN client AS c ON c.id = m.client_id
		 WHERE m.id = :id`, map[string]any{"id": id})
	return out, err
}

func (r *balanceRepository) ClientTotal(ctx context.Context, clientID int64) (float64, error) {
	var total float64
	err := r.s.get(ctx, &total,
		`SELECT SUM(amount) AS client_total
		 FROM client_balance
		 WHERE client_id = :client_id
		 GROUP BY client_id`, map[string]any{"client_id": clientID})
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	return total, err
}

func (r *balanceRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.s.exec(ctx, `DELETE FROM client_balance WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *balanceRepository) DeleteByClient(ctx context.Context, clientID int64) (int64, error) {
	return r.s.exec(ctx, `DELETE FROM client_balance WHERE client_id = :client_id`,
		map[string]any{"client_id": clientID})
}

// List pages ledger entries, newest first, with the owning client's currency.
func (r *balanceRepository) List(ctx context.Context, f repository.BalanceFilter, p pagination.Request) (pagination.ResultSet[model.ClientBalance], error) {
	var (
		where  []string
		params = pagination.Params{}
	)
	if f.ID > 0 {
		where = append(where, `m.id = :id`)
		params["id"] = f.ID
	}
	if f.ClientID > 0 {
		where = append(where, `m.client_id = :client_id`)
		params["client_id"] = f.ClientID
	}
	if f.DateFrom != nil {
		where = append(where, `m.created_at >= :date_from`)
		params["date_from"] = f.DateFrom.UTC()
	}
	if f.DateTo != nil {
		where = append(where, `m.created_at <= :date_to`)
		params["date_to"] = f.DateTo.UTC()
	}

	query := `SELECT ` + balanceColumns + `, COALESCE(c.currency, '') AS currency
		FROM client_balance AS m
		LEFT JOIN client AS c ON c.id = m.client_id`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY m.id DESC`
	return list[model.ClientBalance](ctx, r.s, query, params, p)
}

var _ repository.BalanceRepository = (*balanceRepository)(nil)
