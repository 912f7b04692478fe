// Package contract holds behaviour suites every repository implementation must pass.
// They run against a real database and are wired up by the implementation packages.
package contract

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

type StaffFactory func(t *testing.T) (repository.StaffRepository, func())

type GroupFactory func(t *testing.T) (groups repository.GroupRepository, staff repository.StaffRepository, cleanup func())

type LoginHistoryFactory func(t *testing.T) (logs repository.LoginHistoryRepository, staff repository.StaffRepository, cleanup func())

type BalanceFactory func(t *testing.T) (repo repository.BalanceRepository, mkClient func(ctx context.Context, currency string) (int64, error), cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, staff repository.StaffRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func newAdmin(email string) model.Admin {
	return model.Admin{
		AdminGroupID: 1,
		Role:         model.RoleStaff,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Name:         "Staff " + email,
		Status:       model.StatusActive,
	}
}

func RunStaffRepositoryContract(t *testing.T, makeRepo StaffFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, newAdmin("ann@example.com"))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByEmail(ctx, "ann@example.com")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.PasswordHash != "$2a$10$hash" || got.Permissions != "{}" {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, newAdmin("dup@example.com")); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, newAdmin("dup@example.com"))
		if err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("list_pages_and_hides_cron", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			if _, err := repo.Create(ctx, newAdmin(fmt.Sprintf("s%d@example.com", i))); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		cron := newAdmin("cron@example.com")
		cron.Role = model.RoleCron
		if _, err := repo.Create(ctx, cron); err != nil {
			t.Fatalf("seed cron: %v", err)
		}

		res, err := repo.List(ctx, repository.StaffFilter{}, pagination.Request{Page: 3, PerPage: 3})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.List) != 1 || res.Total != 7 || res.Pages != 3 {
			t.Fatalf("unexpected page: len=%d total=%d pages=%d", len(res.List), res.Total, res.Pages)
		}

		res, err = repo.List(ctx, repository.StaffFilter{Search: "S3@"}, pagination.Request{Page: 1, PerPage: 10})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if res.Total != 1 || res.List[0].Email != "s3@example.com" {
			t.Fatalf("unexpected search result: %+v", res)
		}
	})

	t.Run("update_password_and_permissions", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		a, err := repo.Create(ctx, newAdmin("perm@example.com"))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := repo.UpdatePassword(ctx, a.ID, "new-hash"); err != nil {
			t.Fatalf("update password: %v", err)
		}
		if err := repo.UpdatePermissions(ctx, a.ID, `{"client":{"index":true}}`); err != nil {
			t.Fatalf("update permissions: %v", err)
		}
		got, _ := repo.GetByID(ctx, a.ID)
		if got.PasswordHash != "new-hash" || got.Permissions != `{"client":{"index":true}}` {
			t.Fatalf("not persisted: %+v", got)
		}
		if err := repo.UpdatePassword(ctx, 999999, "x"); err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunGroupRepositoryContract(t *testing.T, makeRepo GroupFactory) {
	t.Helper()

	t.Run("create_update_pairs", func(t *testing.T) {
		groups, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		g, err := groups.Create(ctx, model.AdminGroup{Name: "Billing"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		g.Name = "Accounting"
		if _, err := groups.Update(ctx, g); err != nil {
			t.Fatalf("update: %v", err)
		}
		pairs, err := groups.Pairs(ctx)
		if err != nil {
			t.Fatalf("pairs: %v", err)
		}
		if pairs[g.ID] != "Accounting" || pairs[1] == "" {
			t.Fatalf("unexpected pairs: %v", pairs)
		}
	})

	t.Run("members_block_delete", func(t *testing.T) {
		groups, staff, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		g, err := groups.Create(ctx, model.AdminGroup{Name: "Support L2"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		a := newAdmin("member@example.com")
		a.AdminGroupID = g.ID
		if _, err := staff.Create(ctx, a); err != nil {
			t.Fatalf("seed member: %v", err)
		}
		n, err := groups.CountMembers(ctx, g.ID)
		if err != nil || n != 1 {
			t.Fatalf("count members: n=%d err=%v", n, err)
		}
		if err := groups.Delete(ctx, g.ID); err != repository.ErrConflict {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("list_search", func(t *testing.T) {
		groups, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		res, err := groups.List(context.Background(), "admin", pagination.Request{Page: 1, PerPage: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 1 || res.List[0].ID != 1 {
			t.Fatalf("unexpected list: %+v", res)
		}
	})
}

func RunLoginHistoryRepositoryContract(t *testing.T, makeRepo LoginHistoryFactory) {
	t.Helper()

	t.Run("create_list_delete", func(t *testing.T) {
		logs, staff, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		a, err := staff.Create(ctx, newAdmin("log@example.com"))
		if err != nil {
			t.Fatalf("seed staff: %v", err)
		}
		var last model.AdminLogin
		for _, ip := range []string{"10.0.0.1", "10.0.0.2", "192.168.1.1"} {
			if last, err = logs.Create(ctx, model.AdminLogin{AdminID: a.ID, IP: ip}); err != nil {
				t.Fatalf("seed log: %v", err)
			}
		}
		if last.AdminEmail != "log@example.com" {
			t.Fatalf("expected joined staff email, got %+v", last)
		}

		res, err := logs.List(ctx, repository.LoginHistoryFilter{Search: "10.0."}, pagination.Request{Page: 1, PerPage: 1})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 2 || res.Pages != 1 || res.List[0].IP != "10.0.0.2" {
			t.Fatalf("unexpected page: %+v", res)
		}

		if err := logs.DeleteByAdmin(ctx, a.ID); err != nil {
			t.Fatalf("delete by admin: %v", err)
		}
		if _, err := logs.GetByID(ctx, last.ID); err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunBalanceRepositoryContract(t *testing.T, makeRepo BalanceFactory) {
	t.Helper()

	t.Run("total_and_list", func(t *testing.T) {
		repo, mkClient, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		clientID, err := mkClient(ctx, "EUR")
		if err != nil {
			t.Fatalf("seed client: %v", err)
		}
		total, err := repo.ClientTotal(ctx, clientID)
		if err != nil || total != 0 {
			t.Fatalf("empty ledger: total=%v err=%v", total, err)
		}
		for _, amount := range []float64{100, -20.5, -4.25} {
			if _, err := repo.Create(ctx, model.ClientBalance{ClientID: clientID, Type: "default", Description: "entry", Amount: amount}); err != nil {
				t.Fatalf("seed entry: %v", err)
			}
		}
		total, err = repo.ClientTotal(ctx, clientID)
		if err != nil || total != 75.25 {
			t.Fatalf("total=%v err=%v", total, err)
		}

		future := time.Now().Add(24 * time.Hour)
		res, err := repo.List(ctx, repository.BalanceFilter{ClientID: clientID, DateTo: &future}, pagination.Request{Page: 1, PerPage: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 3 || res.Pages != 2 || len(res.List) != 2 {
			t.Fatalf("unexpected page: %+v", res)
		}
		if res.List[0].Currency != "EUR" || res.List[0].ID < res.List[1].ID {
			t.Fatalf("expected newest first with currency: %+v", res.List)
		}

		n, err := repo.DeleteByClient(ctx, clientID)
		if err != nil || n != 3 {
			t.Fatalf("delete by client: n=%d err=%v", n, err)
		}
	})

	t.Run("unknown_client_conflict", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Create(context.Background(), model.ClientBalance{ClientID: 424242, Description: "orphan", Amount: 1})
		if err != repository.ErrConflict {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, staff, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := staff.Create(ctx, newAdmin("commit@example.com"))
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := staff.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, staff, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		errMarker := assertErr("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := staff.Create(ctx, newAdmin("rollback@example.com"))
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if err == nil || err.Error() != errMarker.Error() {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := staff.GetByID(ctx, createdID); err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

// assertErr builds a marker error local to the suites.
func assertErr(msg string) error { return &sentinel{msg} }

type sentinel struct{ s string }

func (e *sentinel) Error() string { return e.s }
