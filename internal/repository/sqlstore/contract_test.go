package sqlstore_test

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/maxviazov/billing-admin-service/internal/config"
	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/repository"
	"github.com/maxviazov/billing-admin-service/internal/repository/contract"
	"github.com/maxviazov/billing-admin-service/internal/repository/sqlstore"
	"github.com/maxviazov/billing-admin-service/migrations"
)

var (
	contractDB *repository.Database
	store      *sqlstore.Store
	skippy     bool
)

// TestMain connects to a real database when CONTRACT_TESTS=1. CONTRACT_DRIVER picks
// postgres (default) or mysql; credentials come from the usual APP_DATABASE_* / DB_* variables.
func TestMain(m *testing.M) {
	if os.Getenv("CONTRACT_TESTS") != "1" {
		skippy = true
		os.Exit(m.Run())
	}

	cfg, ok := contractConfigFromEnv()
	if !ok {
		fmt.Println("[contract] database credentials not set; skipping")
		skippy = true
		os.Exit(m.Run())
	}

	logger := zerolog.New(os.Stdout).Level(zerolog.WarnLevel)
	ctx := context.Background()
	var err error
	contractDB, err = repository.Open(ctx, cfg, &logger)
	if err != nil {
		fmt.Println("[contract] open error:", err)
		os.Exit(1)
	}
	mdb, release, err := contractDB.MigrationDB()
	if err != nil {
		fmt.Println("[contract] migrate error:", err)
		os.Exit(1)
	}
	err = migrations.Up(ctx, mdb, cfg.Database.Driver, logger)
	_ = release()
	if err != nil {
		fmt.Println("[contract] migrate error:", err)
		os.Exit(1)
	}
	strategy := sqlstore.StrategySimple
	if cfg.Database.Driver == "mysql" {
		strategy = sqlstore.StrategyAdvanced
	}
	store, err = sqlstore.NewStore(contractDB.DB, strategy, logger)
	if err != nil {
		fmt.Println("[contract] store error:", err)
		os.Exit(1)
	}

	code := m.Run()
	contractDB.Close()
	os.Exit(code)
}

func contractConfigFromEnv() (*config.Config, bool) {
	driver := firstNonEmpty(os.Getenv("CONTRACT_DRIVER"), "postgres")
	defaultPort := "5432"
	if driver == "mysql" {
		defaultPort = "3306"
	}
	port, err := strconv.Atoi(firstNonEmpty(os.Getenv("APP_DATABASE_PORT"), os.Getenv("DB_PORT"), defaultPort))
	if err != nil {
		return nil, false
	}
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:   driver,
		Host:     firstNonEmpty(os.Getenv("APP_DATABASE_HOST"), os.Getenv("DB_HOST"), "localhost"),
		Port:     port,
		User:     firstNonEmpty(os.Getenv("APP_DATABASE_USER"), os.Getenv("DB_USER")),
		Password: firstNonEmpty(os.Getenv("APP_DATABASE_PASSWORD"), os.Getenv("DB_PASSWORD")),
		DBName:   firstNonEmpty(os.Getenv("APP_DATABASE_DBNAME"), os.Getenv("DB_NAME")),
		SSLMode:  "disable",
		MaxConns: 4,
		MinConns: 1,
	}}
	d := cfg.Database
	return cfg, d.User != "" && d.Password != "" && d.DBName != ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func skipIfNeeded(t *testing.T) {
	if skippy {
		t.Skip("contract tests skipped; set CONTRACT_TESTS=1 and provide DB env")
	}
}

// truncateAll clears everything except the seeded staff groups.
func truncateAll(t *testing.T) {
	t.Helper()
	stmts := []string{
		"DELETE FROM client_balance",
		"DELETE FROM client",
		"DELETE FROM activity_admin_history",
		"DELETE FROM admin",
		"DELETE FROM admin_group WHERE id > 2",
	}
	for _, s := range stmts {
		if _, err := contractDB.DB.Exec(s); err != nil {
			t.Fatalf("truncate failed: %v", err)
		}
	}
}

func makeStaffRepo(t *testing.T) (repository.StaffRepository, func()) {
	skipIfNeeded(t)
	truncateAll(t)
	return sqlstore.NewStaffRepository(store), func() { truncateAll(t) }
}

func makeGroupRepo(t *testing.T) (repository.GroupRepository, repository.StaffRepository, func()) {
	skipIfNeeded(t)
	truncateAll(t)
	return sqlstore.NewGroupRepository(store), sqlstore.NewStaffRepository(store), func() { truncateAll(t) }
}

func makeLoginHistoryRepo(t *testing.T) (repository.LoginHistoryRepository, repository.StaffRepository, func()) {
	skipIfNeeded(t)
	truncateAll(t)
	return sqlstore.NewLoginHistoryRepository(store), sqlstore.NewStaffRepository(store), func() { truncateAll(t) }
}

func makeBalanceRepo(t *testing.T) (repository.BalanceRepository, func(ctx context.Context, currency string) (int64, error), func()) {
	skipIfNeeded(t)
	truncateAll(t)
	clients := sqlstore.NewClientRepository(store)
	seq := 0
	mkClient := func(ctx context.Context, currency string) (int64, error) {
		seq++
		c, err := clients.Create(ctx, model.Client{Email: fmt.Sprintf("client%d@example.com", seq), Currency: currency})
		if err != nil {
			return 0, err
		}
		return c.ID, nil
	}
	return sqlstore.NewBalanceRepository(store), mkClient, func() { truncateAll(t) }
}

func makeTx(t *testing.T) (repository.TxManager, repository.StaffRepository, func()) {
	skipIfNeeded(t)
	truncateAll(t)
	return sqlstore.NewTxManager(store), sqlstore.NewStaffRepository(store), func() { truncateAll(t) }
}

func makePinger(t *testing.T) (repository.Pinger, func()) {
	skipIfNeeded(t)
	return sqlstore.NewPinger(store), func() {}
}

func TestStaffRepository_Contract(t *testing.T) {
	contract.RunStaffRepositoryContract(t, makeStaffRepo)
}

func TestGroupRepository_Contract(t *testing.T) {
	contract.RunGroupRepositoryContract(t, makeGroupRepo)
}

func TestLoginHistoryRepository_Contract(t *testing.T) {
	contract.RunLoginHistoryRepositoryContract(t, makeLoginHistoryRepo)
}

func TestBalanceRepository_Contract(t *testing.T) {
	contract.RunBalanceRepositoryContract(t, makeBalanceRepo)
}

func TestTxManager_Contract(t *testing.T) {
	contract.RunTxManagerContract(t, makeTx)
}

func TestPinger_Contract(t *testing.T) {
	contract.RunPingerContract(t, makePinger)
}
