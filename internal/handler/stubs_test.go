package handler_test

import (
	"context"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
	"github.com/maxviazov/billing-admin-service/internal/service"
)

// stubPinger implements handler.Pinger for health endpoints.
type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

// stubStaff records what the handlers pass in and returns canned results.
type stubStaff struct {
	err error

	gotFilter      repository.StaffFilter
	gotLoginFilter repository.LoginHistoryFilter
	gotReq         pagination.Request
	gotID          int64
	gotNew         service.NewStaff
	gotPatch       model.AdminPatch
	gotPerms       model.Permissions
	gotIDs         []int64

	list   pagination.ResultSet[model.AdminView]
	staff  model.AdminView
	pairs  map[int64]string
	logins pagination.ResultSet[model.AdminLoginView]
}

func (s *stubStaff) ListStaff(_ context.Context, f repository.StaffFilter, req pagination.Request) (pagination.ResultSet[model.AdminView], error) {
	s.gotFilter, s.gotReq = f, req
	if s.err != nil {
		return pagination.ResultSet[model.AdminView]{}, s.err
	}
	if err := req.Validate(); err != nil {
		return pagination.ResultSet[model.AdminView]{}, err
	}
	return s.list, nil
}

func (s *stubStaff) GetStaff(_ context.Context, id int64) (model.AdminView, error) {
	s.gotID = id
	return s.staff, s.err
}

func (s *stubStaff) CreateStaff(_ context.Context, in service.NewStaff) (int64, error) {
	s.gotNew = in
	return 42, s.err
}

func (s *stubStaff) UpdateStaff(_ context.Context, id int64, patch model.AdminPatch) (model.AdminView, error) {
	s.gotID, s.gotPatch = id, patch
	return s.staff, s.err
}

func (s *stubStaff) DeleteStaff(_ context.Context, id int64) error {
	s.gotID = id
	return s.err
}

func (s *stubStaff) ChangePassword(_ context.Context, id int64, _, _ string) error {
	s.gotID = id
	return s.err
}

func (s *stubStaff) GetPermissions(_ context.Context, id int64) (model.Permissions, error) {
	s.gotID = id
	return s.gotPerms, s.err
}

func (s *stubStaff) SetPermissions(_ context.Context, id int64, perms model.Permissions) error {
	s.gotID, s.gotPerms = id, perms
	return s.err
}

func (s *stubStaff) GroupPairs(context.Context) (map[int64]string, error) {
	return s.pairs, s.err
}

func (s *stubStaff) ListGroups(_ context.Context, _ string, req pagination.Request) (pagination.ResultSet[model.AdminGroupView], error) {
	s.gotReq = req
	return pagination.NewResultSet[model.AdminGroupView](req, 0, nil), s.err
}

func (s *stubStaff) CreateGroup(context.Context, string) (int64, error) { return 3, s.err }

func (s *stubStaff) GetGroup(_ context.Context, id int64) (model.AdminGroupView, error) {
	s.gotID = id
	return model.AdminGroupView{ID: id}, s.err
}

func (s *stubStaff) UpdateGroup(_ context.Context, id int64, name string) (model.AdminGroupView, error) {
	s.gotID = id
	return model.AdminGroupView{ID: id, Name: name}, s.err
}

func (s *stubStaff) DeleteGroup(_ context.Context, id int64) error {
	s.gotID = id
	return s.err
}

func (s *stubStaff) ListLoginHistory(_ context.Context, f repository.LoginHistoryFilter, req pagination.Request) (pagination.ResultSet[model.AdminLoginView], error) {
	s.gotLoginFilter, s.gotReq = f, req
	return s.logins, s.err
}

func (s *stubStaff) GetLoginHistory(_ context.Context, id int64) (model.AdminLoginView, error) {
	s.gotID = id
	return model.AdminLoginView{ID: id}, s.err
}

func (s *stubStaff) DeleteLoginHistory(_ context.Context, id int64) error {
	s.gotID = id
	return s.err
}

func (s *stubStaff) BatchDeleteLoginHistory(_ context.Context, ids []int64) error {
	s.gotIDs = ids
	return s.err
}

// stubBalance does the same for the ledger.
type stubBalance struct {
	err error

	called      bool
	gotClientID int64
	gotID       int64
	gotQuery    service.BalanceQuery
	gotReq      pagination.Request
	gotDeduct   service.Deduction

	total float64
	list  pagination.ResultSet[model.ClientBalanceView]
}

func (s *stubBalance) ClientBalance(_ context.Context, clientID int64) (float64, error) {
	s.called, s.gotClientID = true, clientID
	return s.total, s.err
}

func (s *stubBalance) ListBalance(_ context.Context, q service.BalanceQuery, req pagination.Request) (pagination.ResultSet[model.ClientBalanceView], error) {
	s.called, s.gotQuery, s.gotReq = true, q, req
	return s.list, s.err
}

func (s *stubBalance) DeductFunds(_ context.Context, clientID int64, d service.Deduction) (model.ClientBalanceView, error) {
	s.called, s.gotClientID, s.gotDeduct = true, clientID, d
	return model.ClientBalanceView{ID: 9, Amount: -d.Amount, Currency: "USD", Description: d.Description}, s.err
}

func (s *stubBalance) Remove(_ context.Context, id int64) error {
	s.called, s.gotID = true, id
	return s.err
}

func (s *stubBalance) RemoveByClient(_ context.Context, clientID int64) (int64, error) {
	s.called, s.gotClientID = true, clientID
	return 4, s.err
}
