package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

// DefaultBalanceType is stored when a deduction names no type.
const DefaultBalanceType = "default"

type balanceService struct {
	ledger  repository.BalanceRepository
	clients repository.ClientRepository
	log     zerolog.Logger
}

func NewBalanceService(ledger repository.BalanceRepository, clients repository.ClientRepository, logger zerolog.Logger) BalanceService {
	l := logger.With().Str("module", "service").Str("component", "balance").Logger()
	return &balanceService{ledger: ledger, clients: clients, log: l}
}

// ClientBalance sums the client's ledger; a client without entries has 0.
func (s *balanceService) ClientBalance(ctx context.Context, clientID int64) (float64, error) {
	if err := invalidID("client_id", clientID); err != nil {
		return 0, err
	}
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return 0, err
	}
	return s.ledger.ClientTotal(ctx, clientID)
}

func (s *balanceService) ListBalance(ctx context.Context, q BalanceQuery, req pagination.Request) (pagination.ResultSet[model.ClientBalanceView], error) {
	f := repository.BalanceFilter{ID: q.ID, ClientID: q.ClientID}
	var ferrs []FieldError
	if q.DateFrom != "" {
		t, err := ParseDate(q.DateFrom, false)
		if err != nil {
			ferrs = append(ferrs, FieldError{Field: "date_from", Message: "must be YYYY-MM-DD or RFC3339"})
		} else {
			f.DateFrom = &t
		}
	}
	if q.DateTo != "" {
		t, err := ParseDate(q.DateTo, true)
		if err != nil {
			ferrs = append(ferrs, FieldError{Field: "date_to", Message: "must be YYYY-MM-DD or RFC3339"})
		} else {
			f.DateTo = &t
		}
	}
	if err := newInvalidInput(ferrs); err != nil {
		return pagination.ResultSet[model.ClientBalanceView]{}, err
	}

	res, err := s.ledger.List(ctx, f, req)
	if err != nil {
		s.log.Error().Err(err).Int64("client_id", q.ClientID).Msg("list balance failed")
		return pagination.ResultSet[model.ClientBalanceView]{}, err
	}
	return pagination.Map(res, func(b model.ClientBalance) (model.ClientBalanceView, error) {
		return toBalanceView(b), nil
	})
}

func toBalanceView(b model.ClientBalance) model.ClientBalanceView {
	return model.ClientBalanceView{
		ID:          b.ID,
		Description: b.Description,
		Amount:      b.Amount,
		Currency:    b.Currency,
		CreatedAt:   b.CreatedAt,
	}
}

// DeductFunds records a negative ledger entry for the client.
func (s *balanceService) DeductFunds(ctx context.Context, clientID int64, d Deduction) (model.ClientBalanceView, error) {
	var ferrs []FieldError
	if clientID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "client_id", Message: "must be > 0"})
	}
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount <= 0 {
		ferrs = append(ferrs, FieldError{Field: "amount", Message: "funds amount is not valid"})
	}
	d.Description = strings.TrimSpace(d.Description)
	if d.Description == "" {
		ferrs = append(ferrs, FieldError{Field: "description", Message: "funds description is not valid"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.ClientBalanceView{}, err
	}
	if d.Type = strings.TrimSpace(d.Type); d.Type == "" {
		d.Type = DefaultBalanceType
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return model.ClientBalanceView{}, err
	}
	start := time.Now()
	out, err := s.ledger.Create(ctx, model.ClientBalance{
		ClientID:    clientID,
		Type:        d.Type,
		RelID:       d.RelID,
		Description: d.Description,
		Amount:      -d.Amount,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("client_id", clientID).Msg("deduct funds failed")
		return model.ClientBalanceView{}, err
	}
	if out.Currency == "" {
		out.Currency = client.Currency
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("client_id", clientID).Float64("amount", d.Amount).Msg("funds deducted")
	return toBalanceView(out), nil
}

func (s *balanceService) Remove(ctx context.Context, id int64) error {
	if err := invalidID("id", id); err != nil {
		return err
	}
	if err := s.ledger.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("balance_id", id).Msg("ledger entry removed")
	return nil
}

func (s *balanceService) RemoveByClient(ctx context.Context, clientID int64) (int64, error) {
	if err := invalidID("client_id", clientID); err != nil {
		return 0, err
	}
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return 0, err
	}
	n, err := s.ledger.DeleteByClient(ctx, clientID)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int64("client_id", clientID).Int64("removed", n).Msg("client ledger cleared")
	return n, nil
}

var _ BalanceService = (*balanceService)(nil)
