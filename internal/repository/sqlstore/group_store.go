package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

type groupRepository struct{ s *Store }

func NewGroupRepository(s *Store) repository.GroupRepository {
	return &groupRepository{s: s}
}

func (r *groupRepository) Create(ctx context.Context, g model.AdminGroup) (model.AdminGroup, error) {
	now := time.Now().UTC()
	g.CreatedAt, g.UpdatedAt = now, now
	id, err := r.s.insert(ctx,
		`INSERT INTO admin_group (name, created_at, updated_at) VALUES (:name, :created_at, :updated_at)`, g)
	if err != nil {
		return model.AdminGroup{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *groupRepository) GetByID(ctx context.Context, id int64) (model.AdminGroup, error) {
	var out model.AdminGroup
	err := r.s.get(ctx, &out,
		`SELECT id, name, created_at, updated_at FROM admin_group WHERE id = :id`, map[string]any{"id": id})
	return out, err
}

func (r *groupRepository) Update(ctx context.Context, g model.AdminGroup) (model.AdminGroup, error) {
	g.UpdatedAt = time.Now().UTC()
	if _, err := r.s.exec(ctx,
		`UPDATE admin_group SET name = :name, updated_at = :updated_at WHERE id = :id`, g); err != nil {
		return model.AdminGroup{}, err
	}
	return r.GetByID(ctx, g.ID)
}

func (r *groupRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.s.exec(ctx, `DELETE FROM admin_group WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *groupRepository) CountMembers(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.s.get(ctx, &n,
		`SELECT COUNT(*) FROM admin WHERE admin_group_id = :id`, map[string]any{"id": id})
	return n, err
}

func (r *groupRepository) Pairs(ctx context.Context) (map[int64]string, error) {
	var groups []model.AdminGroup
	if err := r.s.selectAll(ctx, &groups, `SELECT id, name, created_at, updated_at FROM admin_group ORDER BY id`, nil); err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(groups))
	for _, g := range groups {
		out[g.ID] = g.Name
	}
	return out, nil
}

func (r *groupRepository) List(ctx context.Context, search string, p pagination.Request) (pagination.ResultSet[model.AdminGroup], error) {
	query := `SELECT m.id, m.name, m.created_at, m.updated_at FROM admin_group AS m`
	params := pagination.Params{}
	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE LOWER(m.name) LIKE :search`
		params["search"] = likePattern(s)
	}
	query += ` ORDER BY m.id ASC`
	return list[model.AdminGroup](ctx, r.s, query, params, p)
}

var _ repository.GroupRepository = (*groupRepository)(nil)
