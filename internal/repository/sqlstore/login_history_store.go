package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

const loginColumns = `m.id, m.admin_id, m.ip, m.created_at, m.updated_at, COALESCE(a.name, '') AS admin_name, COALESCE(a.email, '') AS admin_email`

type loginHistoryRepository struct{ s *Store }

func NewLoginHistoryRepository(s *Store) repository.LoginHistoryRepository {
	return &loginHistoryRepository{s: s}
}

func (r *loginHistoryRepository) Create(ctx context.Context, l model.AdminLogin) (model.AdminLogin, error) {
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	id, err := r.s.insert(ctx,
		`INSERT INTO activity_admin_history (admin_id, ip, created_at, updated_at)
		 VALUES (:admin_id, :ip, :created_at, :updated_at)`, l)
	if err != nil {
		return model.AdminLogin{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *loginHistoryRepository) GetByID(ctx context.Context, id int64) (model.AdminLogin, error) {
	var out model.AdminLogin
	err := r.s.get(ctx, &out,
		`SELECT `+loginColumns+` FROM activity_admin_history AS m
		 LEFT JOIN admin AS a ON a.id = m.admin_id
		 WHERE m.id = :id`, map[string]any{"id": id})
	return out, err
}

func (r *loginHistoryRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.s.exec(ctx, `DELETE FROM activity_admin_history WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *loginHistoryRepository) DeleteByAdmin(ctx context.Context, adminID int64) error {
	_, err := r.s.exec(ctx, `DELETE FROM activity_admin_history WHERE admin_id = :admin_id`,
		map[string]any{"admin_id": adminID})
	return err
}

// List pages sign-in events, newest first.
func (r *loginHistoryRepository) List(ctx context.Context, f repository.LoginHistoryFilter, p pagination.Request) (pagination.ResultSet[model.AdminLogin], error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + loginColumns + ` FROM activity_admin_history AS m
		LEFT JOIN admin AS a ON a.id = m.admin_id
		WHERE 1 = 1`)
	params := pagination.Params{}
	if f.AdminID > 0 {
		b.WriteString(` AND m.admin_id = :admin_id`)
		params["admin_id"] = f.AdminID
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		b.WriteString(` AND (m.ip LIKE :search OR LOWER(a.name) LIKE :search OR LOWER(a.email) LIKE :search)`)
		params["search"] = likePattern(s)
	}
	b.WriteString(` ORDER BY m.id DESC`)
	return list[model.AdminLogin](ctx, r.s, b.String(), params, p)
}

var _ repository.LoginHistoryRepository = (*loginHistoryRepository)(nil)
