package repository

import (
	"context"
	"time"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// StaffFilter narrows staff listings. Zero values mean "no filter".
type StaffFilter struct {
	Search  string
	Status  string
	GroupID int64
}

// StaffRepository declares persistence operations for staff members.
// I return domain models and surface domain errors from errors.go rather than driver codes.
type StaffRepository interface {
	Create(ctx context.Context, a model.Admin) (model.Admin, error)
	GetByID(ctx context.Context, id int64) (model.Admin, error)
	GetByEmail(ctx context.Context, email string) (model.Admin, error)
	Update(ctx context.Context, a model.Admin) (model.Admin, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdatePermissions(ctx context.Context, id int64, permissions string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f StaffFilter, p pagination.Request) (pagination.ResultSet[model.Admin], error)
	ListByGroup(ctx context.Context, groupID int64) ([]model.Admin, error)
}

// GroupRepository declares persistence operations for staff groups.
type GroupRepository interface {
	Create(ctx context.Context, g model.AdminGroup) (model.AdminGroup, error)
	GetByID(ctx context.Context, id int64) (model.AdminGroup, error)
	Update(ctx context.Context, g model.AdminGroup) (model.AdminGroup, error)
	Delete(ctx context.Context, id int64) error
	CountMembers(ctx context.Context, id int64) (int, error)
	Pairs(ctx context.Context) (map[int64]string, error)
	List(ctx context.Context, search string, p pagination.Request) (pagination.ResultSet[model.AdminGroup], error)
}

// LoginHistoryFilter narrows the staff sign-in log.
type LoginHistoryFilter struct {
	AdminID int64
	Search  string // matches ip, staff name or email
}

// LoginHistoryRepository declares persistence operations for staff sign-in events.
type LoginHistoryRepository interface {
	Create(ctx context.Context, l model.AdminLogin) (model.AdminLogin, error)
	GetByID(ctx context.Context, id int64) (model.AdminLogin, error)
	Delete(ctx context.Context, id int64) error
	DeleteByAdmin(ctx context.Context, adminID int64) error
	List(ctx context.Context, f LoginHistoryFilter, p pagination.Request) (pagination.ResultSet[model.AdminLogin], error)
}

// ClientRepository is the read side of clients needed by the ledger.
type ClientRepository interface {
	Create(ctx context.Context, c model.Client) (model.Client, error)
	GetByID(ctx context.Context, id int64) (model.Client, error)
}

// BalanceFilter narrows ledger listings. Nil bounds are open.
type BalanceFilter struct {
	ID       int64
	ClientID int64
	DateFrom *time.Time
	DateTo   *time.Time
}

// BalanceRepository declares persistence operations for the client ledger.
type BalanceRepository interface {
	Create(ctx context.Context, b model.ClientBalance) (model.ClientBalance, error)
	GetByID(ctx context.Context, id int64) (model.ClientBalance, error)
	// ClientTotal sums all ledger entries of a client; no entries yields 0.
	ClientTotal(ctx context.Context, clientID int64) (float64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByClient(ctx context.Context, clientID int64) (int64, error)
	List(ctx context.Context, f BalanceFilter, p pagination.Request) (pagination.ResultSet[model.ClientBalance], error)
}
