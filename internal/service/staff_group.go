package service

import (
	"context"
	"strings"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
)

// AdministratorsGroupID is the built-in group that can never be removed.
const AdministratorsGroupID int64 = 1

func validGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newInvalidInput([]FieldError{{Field: "name", Message: "must not be empty"}})
	}
	if len([]rune(name)) > 255 {
		return "", newInvalidInput([]FieldError{{Field: "name", Message: "length must be at most 255"}})
	}
	return name, nil
}

func toGroupView(g model.AdminGroup) model.AdminGroupView {
	return model.AdminGroupView{ID: g.ID, Name: g.Name, CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt}
}

func (s *staffService) GroupPairs(ctx context.Context) (map[int64]string, error) {
	return s.groups.Pairs(ctx)
}

func (s *staffService) ListGroups(ctx context.Context, search string, req pagination.Request) (pagination.ResultSet[model.AdminGroupView], error) {
	res, err := s.groups.List(ctx, search, req)
	if err != nil {
		s.log.Error().Err(err).Int("page", req.Page).Int("per_page", req.PerPage).Msg("list groups failed")
		return pagination.ResultSet[model.AdminGroupView]{}, err
	}
	return pagination.Map(res, func(g model.AdminGroup) (model.AdminGroupView, error) {
		return toGroupView(g), nil
	})
}

func (s *staffService) CreateGroup(ctx context.Context, name string) (int64, error) {
	name, err := validGroupName(name)
	if err != nil {
		return 0, err
	}
	out, err := s.groups.Create(ctx, model.AdminGroup{Name: name})
	if err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("create group failed")
		return 0, err
	}
	s.log.Info().Int64("group_id", out.ID).Msg("staff group created")
	return out.ID, nil
}

// GetGroup returns the group with its members.
func (s *staffService) GetGroup(ctx context.Context, id int64) (model.AdminGroupView, error) {
	if err := invalidID("id", id); err != nil {
		return model.AdminGroupView{}, err
	}
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return model.AdminGroupView{}, err
	}
	members, err := s.staff.ListByGroup(ctx, id)
	if err != nil {
		return model.AdminGroupView{}, err
	}
	out := toGroupView(g)
	out.Members = make([]model.AdminView, 0, len(members))
	for _, m := range members {
		out.Members = append(out.Members, toAdminView(m, g))
	}
	return out, nil
}

func (s *staffService) UpdateGroup(ctx context.Context, id int64, name string) (model.AdminGroupView, error) {
	if err := invalidID("id", id); err != nil {
		return model.AdminGroupView{}, err
	}
	name, err := validGroupName(name)
	if err != nil {
		return model.AdminGroupView{}, err
	}
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return model.AdminGroupView{}, err
	}
	g.Name = name
	out, err := s.groups.Update(ctx, g)
	if err != nil {
		return model.AdminGroupView{}, err
	}
	s.log.Info().Int64("group_id", id).Msg("staff group updated")
	return toGroupView(out), nil
}

func (s *staffService) DeleteGroup(ctx context.Context, id int64) error {
	if err := invalidID("id", id); err != nil {
		return err
	}
	if id == AdministratorsGroupID {
		return newProtected("administrators group can not be removed")
	}
	if _, err := s.groups.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.groups.CountMembers(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return newProtected("can not remove group which has staff members")
	}
	if err := s.groups.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("group_id", id).Msg("staff group removed")
	return nil
}
