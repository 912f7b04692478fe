package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

const staffColumns = `m.id, m.admin_group_id, m.role, m.email, m.pass, m.name, m.signature, m.status, m.permissions, m.created_at, m.updated_at`

type staffRepository struct{ s *Store }

func NewStaffRepository(s *Store) repository.StaffRepository {
	return &staffRepository{s: s}
}

func (r *staffRepository) Create(ctx context.Context, a model.Admin) (model.Admin, error) {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	if a.Permissions == "" {
		a.Permissions = "{}"
	}
	id, err := r.s.insert(ctx,
		`INSERT INTO admin (admin_group_id, role, email, pass, name, signature, status, permissions, created_at, updated_at)
		 VALUES (:admin_group_id, :role, :email, :pass, :name, :signature, :status, :permissions, :created_at, :updated_at)`,
		a,
	)
	if err != nil {
		return model.Admin{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *staffRepository) GetByID(ctx context.Context, id int64) (model.Admin, error) {
	var out model.Admin
	err := r.s.get(ctx, &out, `SELECT `+staffColumns+` FROM admin AS m WHERE m.id = :id`, map[string]any{"id": id})
	return out, err
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	var out model.Admin
	err := r.s.get(ctx, &out, `SELECT `+staffColumns+` FROM admin AS m WHERE m.email = :email`, map[string]any{"email": email})
	return out, err
}

// Update persists the editable profile fields of a.
func (r *staffRepository) Update(ctx context.Context, a model.Admin) (model.Admin, error) {
	a.UpdatedAt = time.Now().UTC()
	_, err := r.s.exec(ctx,
		`UPDATE admin SET admin_group_id = :admin_group_id, email = :email, name = :name,
		   signature = :signature, status = :status, updated_at = :updated_at
		 WHERE id = :id`,
		a,
	)
	if err != nil {
		return model.Admin{}, err
	}
	// MySQL reports 0 affected rows for unchanged values, so existence is checked by the reload
	return r.GetByID(ctx, a.ID)
}

func (r *staffRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return r.touch(ctx, `UPDATE admin SET pass = :pass, updated_at = :updated_at WHERE id = :id`,
		map[string]any{"id": id, "pass": hash})
}

func (r *staffRepository) UpdatePermissions(ctx context.Context, id int64, permissions string) error {
	return r.touch(ctx, `UPDATE admin SET permissions = :permissions, updated_at = :updated_at WHERE id = :id`,
		map[string]any{"id": id, "permissions": permissions})
}

func (r *staffRepository) touch(ctx context.Context, query string, args map[string]any) error {
	args["updated_at"] = time.Now().UTC()
	n, err := r.s.exec(ctx, query, args)
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = r.GetByID(ctx, args["id"].(int64))
	}
	return err
}

func (r *staffRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.s.exec(ctx, `DELETE FROM admin WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List pages staff members. Cron accounts are internal and never listed.
func (r *staffRepository) List(ctx context.Context, f repository.StaffFilter, p pagination.Request) (pagination.ResultSet[model.Admin], error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + staffColumns + ` FROM admin AS m WHERE m.role <> :cron_role`)
	params := pagination.Params{"cron_role": model.RoleCron}
	if f.Status != "" {
		b.WriteString(` AND m.status = :status`)
		params["status"] = f.Status
	}
	if f.GroupID > 0 {
		b.WriteString(` AND m.admin_group_id = :group_id`)
		params["group_id"] = f.GroupID
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		b.WriteString(` AND (LOWER(m.name) LIKE :search OR LOWER(m.email) LIKE :search OR LOWER(m.signature) LIKE :search)`)
		params["search"] = likePattern(s)
	}
	b.WriteString(` ORDER BY m.admin_group_id ASC, m.id ASC`)
	return list[model.Admin](ctx, r.s, b.String(), params, p)
}

func (r *staffRepository) ListByGroup(ctx context.Context, groupID int64) ([]model.Admin, error) {
	out := []model.Admin{}
	err := r.s.selectAll(ctx, &out,
		`SELECT `+staffColumns+` FROM admin AS m WHERE m.admin_group_id = :group_id ORDER BY m.id`,
		map[string]any{"group_id": groupID})
	return out, err
}

// likePattern builds a case-insensitive contains pattern.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

var _ repository.StaffRepository = (*staffRepository)(nil)
