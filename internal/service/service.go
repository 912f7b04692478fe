// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrProtected marks records the admin area must never remove or disable
// (the global administrator, the administrators group, groups with members).
var ErrProtected = errors.New("protected record")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// NewInvalidInputError lets the transport layer report malformed parameters the same way services do.
func NewInvalidInputError(fe ...FieldError) error { return newInvalidInput(fe) }

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var v interface{ Fields() []FieldError }
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// protectedError explains which rule blocked the change and unwraps to ErrProtected.
type protectedError struct{ reason string }

func (e *protectedError) Error() string { return e.reason }
func (e *protectedError) Unwrap() error { return ErrProtected }

func newProtected(reason string) error { return &protectedError{reason: reason} }

// NewStaff carries the fields required to create a staff member.
type NewStaff struct {
	Email        string
	Password     string
	Name         string
	AdminGroupID int64
	Signature    string
}

// StaffService defines staff administration use cases, including groups and the sign-in log.
type StaffService interface {
	ListStaff(ctx context.Context, f repository.StaffFilter, req pagination.Request) (pagination.ResultSet[model.AdminView], error)
	GetStaff(ctx context.Context, id int64) (model.AdminView, error)
	CreateStaff(ctx context.Context, in NewStaff) (int64, error)
	UpdateStaff(ctx context.Context, id int64, patch model.AdminPatch) (model.AdminView, error)
	DeleteStaff(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, id int64, password, confirm string) error
	GetPermissions(ctx context.Context, id int64) (model.Permissions, error)
	SetPermissions(ctx context.Context, id int64, perms model.Permissions) error

	GroupPairs(ctx context.Context) (map[int64]string, error)
	ListGroups(ctx context.Context, search string, req pagination.Request) (pagination.ResultSet[model.AdminGroupView], error)
	CreateGroup(ctx context.Context, name string) (int64, error)
	GetGroup(ctx context.Context, id int64) (model.AdminGroupView, error)
	UpdateGroup(ctx context.Context, id int64, name string) (model.AdminGroupView, error)
	DeleteGroup(ctx context.Context, id int64) error

	ListLoginHistory(ctx context.Context, f repository.LoginHistoryFilter, req pagination.Request) (pagination.ResultSet[model.AdminLoginView], error)
	GetLoginHistory(ctx context.Context, id int64) (model.AdminLoginView, error)
	DeleteLoginHistory(ctx context.Context, id int64) error
	BatchDeleteLoginHistory(ctx context.Context, ids []int64) error
}

// BalanceQuery is the raw ledger search as received from the transport layer.
// Dates accept YYYY-MM-DD or RFC3339; a bare date_to covers its whole day.
type BalanceQuery struct {
	ID       int64
	ClientID int64
	DateFrom string
	DateTo   string
}

// Deduction describes funds taken from a client's balance.
type Deduction struct {
	Amount      float64
	Description string
	Type        string
	RelID       *string
}

// BalanceService defines client ledger use cases.
type BalanceService interface {
	ClientBalance(ctx context.Context, clientID int64) (float64, error)
	ListBalance(ctx context.Context, q BalanceQuery, req pagination.Request) (pagination.ResultSet[model.ClientBalanceView], error)
	DeductFunds(ctx context.Context, clientID int64, d Deduction) (model.ClientBalanceView, error)
	Remove(ctx context.Context, id int64) error
	RemoveByClient(ctx context.Context, clientID int64) (int64, error)
}
