package service

import (
	"context"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

func toLoginView(l model.AdminLogin) model.AdminLoginView {
	return model.AdminLoginView{
		ID:        l.ID,
		IP:        l.IP,
		CreatedAt: l.CreatedAt,
		Staff:     model.AdminSummary{ID: l.AdminID, Name: l.AdminName, Email: l.AdminEmail},
	}
}

func (s *staffService) ListLoginHistory(ctx context.Context, f repository.LoginHistoryFilter, req pagination.Request) (pagination.ResultSet[model.AdminLoginView], error) {
	res, err := s.logins.List(ctx, f, req)
	if err != nil {
		s.log.Error().Err(err).Int("page", req.Page).Int("per_page", req.PerPage).Msg("list login history failed")
		return pagination.ResultSet[model.AdminLoginView]{}, err
	}
	return pagination.Map(res, func(l model.AdminLogin) (model.AdminLoginView, error) {
		return toLoginView(l), nil
	})
}

func (s *staffService) GetLoginHistory(ctx context.Context, id int64) (model.AdminLoginView, error) {
	if err := invalidID("id", id); err != nil {
		return model.AdminLoginView{}, err
	}
	l, err := s.logins.GetByID(ctx, id)
	if err != nil {
		return model.AdminLoginView{}, err
	}
	return toLoginView(l), nil
}

func (s *staffService) DeleteLoginHistory(ctx context.Context, id int64) error {
	if err := invalidID("id", id); err != nil {
		return err
	}
	return s.logins.Delete(ctx, id)
}

// BatchDeleteLoginHistory removes every listed entry or none of them.
func (s *staffService) BatchDeleteLoginHistory(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return newInvalidInput([]FieldError{{Field: "ids", Message: "must not be empty"}})
	}
	for _, id := range ids {
		if id <= 0 {
			return newInvalidInput([]FieldError{{Field: "ids", Message: "every id must be > 0"}})
		}
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			if err := s.logins.Delete(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Int("count", len(ids)).Msg("login history entries removed")
	return nil
}
