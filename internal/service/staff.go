package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

// staffService holds staff use-case logic: validation + orchestration, no transport / SQL details.
type staffService struct {
	staff  repository.StaffRepository
	groups repository.GroupRepository
	logins repository.LoginHistoryRepository
	tx     repository.TxManager
	cost   int
	log    zerolog.Logger
}

// StaffOption tweaks a staff service.
type StaffOption func(*staffService)

// WithPasswordCost overrides the bcrypt cost used for new password hashes.
func WithPasswordCost(cost int) StaffOption {
	return func(s *staffService) { s.cost = cost }
}

func NewStaffService(
	staff repository.StaffRepository,
	groups repository.GroupRepository,
	logins repository.LoginHistoryRepository,
	tx repository.TxManager,
	logger zerolog.Logger,
	opts ...StaffOption,
) StaffService {
	l := logger.With().Str("module", "service").Str("component", "staff").Logger()
	s := &staffService{staff: staff, groups: groups, logins: logins, tx: tx, cost: bcrypt.DefaultCost, log: l}
	for _, o := range opts {
		o(s)
	}
	return s
}

func invalidID(field string, id int64) error {
	if id > 0 {
		return nil
	}
	return newInvalidInput([]FieldError{{Field: field, Message: "must be > 0"}})
}

func (s *staffService) ListStaff(ctx context.Context, f repository.StaffFilter, req pagination.Request) (pagination.ResultSet[model.AdminView], error) {
	if f.Status != "" && f.Status != model.StatusActive && f.Status != model.StatusInactive {
		return pagination.ResultSet[model.AdminView]{}, newInvalidInput([]FieldError{{Field: "status", Message: "must be active or inactive"}})
	}
	res, err := s.staff.List(ctx, f, req)
	if err != nil {
		s.log.Error().Err(err).Int("page", req.Page).Int("per_page", req.PerPage).Msg("list staff failed")
		return pagination.ResultSet[model.AdminView]{}, err
	}
	groups, err := s.groups.Pairs(ctx)
	if err != nil {
		return pagination.ResultSet[model.AdminView]{}, err
	}
	return pagination.Map(res, func(a model.Admin) (model.AdminView, error) {
		return toAdminView(a, model.AdminGroup{ID: a.AdminGroupID, Name: groups[a.AdminGroupID]}), nil
	})
}

func (s *staffService) GetStaff(ctx context.Context, id int64) (model.AdminView, error) {
	if err := invalidID("id", id); err != nil {
		return model.AdminView{}, err
	}
	a, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return model.AdminView{}, err
	}
	return s.view(ctx, a)
}

func (s *staffService) view(ctx context.Context, a model.Admin) (model.AdminView, error) {
	g, err := s.groups.GetByID(ctx, a.AdminGroupID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return model.AdminView{}, err
	}
	g.ID = a.AdminGroupID
	return toAdminView(a, g), nil
}

func toAdminView(a model.Admin, g model.AdminGroup) model.AdminView {
	return model.AdminView{
		ID:        a.ID,
		Role:      a.Role,
		Email:     a.Email,
		Name:      a.Name,
		Signature: a.Signature,
		Status:    a.Status,
		Group:     model.AdminGroupView{ID: g.ID, Name: g.Name},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (s *staffService) CreateStaff(ctx context.Context, in NewStaff) (int64, error) {
	start := time.Now()
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	var ferrs []FieldError
	if in.Email == "" {
		ferrs = append(ferrs, FieldError{Field: "email", Message: "must not be empty"})
	} else if !IsValidEmail(in.Email) {
		ferrs = append(ferrs, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if in.Password == "" {
		ferrs = append(ferrs, FieldError{Field: "password", Message: "must not be empty"})
	} else if !IsStrongPassword(in.Password) {
		ferrs = append(ferrs, FieldError{Field: "password", Message: "must be at least 8 characters and contain a digit, a lowercase and an uppercase letter"})
	}
	if in.Name == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	}
	if in.AdminGroupID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "admin_group_id", Message: "must be > 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Str("email", in.Email).Interface("field_errors", ferrs).Msg("staff validation failed")
		return 0, err
	}

	if _, err := s.groups.GetByID(ctx, in.AdminGroupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, newInvalidInput([]FieldError{{Field: "admin_group_id", Message: "group does not exist"}})
		}
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return 0, err
	}
	out, err := s.staff.Create(ctx, model.Admin{
		AdminGroupID: in.AdminGroupID,
		Role:         model.RoleStaff,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Signature:    in.Signature,
		Status:       model.StatusActive,
		Permissions:  "{}",
	})
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("email", in.Email).Msg("create staff failed")
		return 0, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("staff_id", out.ID).Msg("staff member created")
	return out.ID, nil
}

func (s *staffService) UpdateStaff(ctx context.Context, id int64, patch model.AdminPatch) (model.AdminView, error) {
	if err := invalidID("id", id); err != nil {
		return model.AdminView{}, err
	}
	var ferrs []FieldError
	if patch.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &e
		if !IsValidEmail(e) {
			ferrs = append(ferrs, FieldError{Field: "email", Message: "must be a valid email address"})
		}
	}
	if patch.Name != nil {
		n := strings.TrimSpace(*patch.Name)
		patch.Name = &n
		if n == "" {
			ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
		}
	}
	if patch.Status != nil && *patch.Status != model.StatusActive && *patch.Status != model.StatusInactive {
		ferrs = append(ferrs, FieldError{Field: "status", Message: "must be active or inactive"})
	}
	if patch.AdminGroupID != nil && *patch.AdminGroupID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "admin_group_id", Message: "must be > 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.AdminView{}, err
	}

	a, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return model.AdminView{}, err
	}
	if a.Role == model.RoleAdmin && patch.Status != nil && *patch.Status != model.StatusActive {
		return model.AdminView{}, newProtected("global administrator can not be deactivated")
	}
	if patch.AdminGroupID != nil && *patch.AdminGroupID != a.AdminGroupID {
		if _, err := s.groups.GetByID(ctx, *patch.AdminGroupID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return model.AdminView{}, newInvalidInput([]FieldError{{Field: "admin_group_id", Message: "group does not exist"}})
			}
			return model.AdminView{}, err
		}
		a.AdminGroupID = *patch.AdminGroupID
	}
	if patch.Email != nil {
		a.Email = *patch.Email
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Signature != nil {
		a.Signature = *patch.Signature
	}

	out, err := s.staff.Update(ctx, a)
	if err != nil {
		s.log.Error().Err(err).Int64("staff_id", id).Msg("update staff failed")
		return model.AdminView{}, err
	}
	s.log.Info().Int64("staff_id", id).Msg("staff member updated")
	return s.view(ctx, out)
}

// DeleteStaff removes a staff member together with their sign-in history.
func (s *staffService) DeleteStaff(ctx context.Context, id int64) error {
	if err := invalidID("id", id); err != nil {
		return err
	}
	a, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Role == model.RoleAdmin {
		return newProtected("global administrator account can not be removed")
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.logins.DeleteByAdmin(ctx, id); err != nil {
			return err
		}
		return s.staff.Delete(ctx, id)
	})
	if err != nil {
		s.log.Error().Err(err).Int64("staff_id", id).Msg("delete staff failed")
		return err
	}
	s.log.Info().Int64("staff_id", id).Str("email", a.Email).Msg("staff member removed")
	return nil
}

func (s *staffService) ChangePassword(ctx context.Context, id int64, password, confirm string) error {
	if err := invalidID("id", id); err != nil {
		return err
	}
	var ferrs []FieldError
	switch {
	case password == "":
		ferrs = append(ferrs, FieldError{Field: "password", Message: "must not be empty"})
	case password != confirm:
		ferrs = append(ferrs, FieldError{Field: "password_confirm", Message: "passwords do not match"})
	case !IsStrongPassword(password):
		ferrs = append(ferrs, FieldError{Field: "password", Message: "must be at least 8 characters and contain a digit, a lowercase and an uppercase letter"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}
	if err := s.staff.UpdatePassword(ctx, id, string(hash)); err != nil {
		return err
	}
	s.log.Info().Int64("staff_id", id).Msg("staff password changed")
	return nil
}

func (s *staffService) GetPermissions(ctx context.Context, id int64) (model.Permissions, error) {
	if err := invalidID("id", id); err != nil {
		return nil, err
	}
	a, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	perms := model.Permissions{}
	if a.Permissions != "" {
		if err := json.Unmarshal([]byte(a.Permissions), &perms); err != nil {
			// a broken document grants nothing
			s.log.Warn().Err(err).Int64("staff_id", id).Msg("unreadable permissions, treating as empty")
			return model.Permissions{}, nil
		}
	}
	return perms, nil
}

func (s *staffService) SetPermissions(ctx context.Context, id int64, perms model.Permissions) error {
	if err := invalidID("id", id); err != nil {
		return err
	}
	if perms == nil {
		perms = model.Permissions{}
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	if err := s.staff.UpdatePermissions(ctx, id, string(raw)); err != nil {
		return err
	}
	s.log.Info().Int64("staff_id", id).Int("modules", len(perms)).Msg("staff permissions updated")
	return nil
}

var _ StaffService = (*staffService)(nil)
