package testutil

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/moneybook/internal/adapter/http"
	"github.com/iho/moneybook/internal/adapter/http/handler"
	"github.com/iho/moneybook/internal/domain"
	"github.com/iho/moneybook/internal/infrastructure/idgen"
	"github.com/iho/moneybook/internal/infrastructure/postgres"
	"github.com/iho/moneybook/internal/usecase"
	"github.com/iho/moneybook/internal/validation"
)

// Faker returns a deterministic faker so failures reproduce.
func Faker(seed uint64) *gofakeit.Faker {
	return gofakeit.New(seed)
}

// FakeTransactionInput builds a valid input dated within [from, to] whose
// category matches its type.
func FakeTransactionInput(f *gofakeit.Faker, categories []domain.Category, from, to time.Time) domain.TransactionInput {
	c := categories[f.IntRange(0, len(categories)-1)]
	return domain.TransactionInput{
		Date:        domain.DateOf(f.DateRange(from, to)),
		Description: f.Company() + " " + f.Sentence(3),
		Amount:      decimal.NewFromFloat(f.Price(1, 2500)).Round(2),
		Type:        c.Type,
		CategoryID:  c.ID,
	}
}

// FakeTransactionInputs builds n inputs over the default categories.
func FakeTransactionInputs(f *gofakeit.Faker, n int, from, to time.Time) []domain.TransactionInput {
	categories := domain.DefaultCategories()
	out := make([]domain.TransactionInput, n)
	for i := range out {
		out[i] = FakeTransactionInput(f, categories, from, to)
	}
	return out
}

// StoreOptions configures NewStore.
type StoreOptions struct {
	Slots    usecase.SlotStore
	Validate bool
	Logger   *zerolog.Logger
}

// NewStore creates a TransactionStore over opts.Slots.
func NewStore(t *testing.T, opts StoreOptions) *usecase.TransactionStore {
	t.Helper()
	return usecase.NewTransactionStore(context.Background(), usecase.StoreConfig{
		Slots:    opts.Slots,
		IDGen:    idgen.NewULIDGenerator(),
		Logger:   opts.Logger,
		Validate: opts.Validate,
	})
}

// NewAPI serves the full router for store on an httptest server.
func NewAPI(t *testing.T, store *usecase.TransactionStore, idem usecase.IdempotencyStore) *httptest.Server {
	t.Helper()

	v := validation.New()
	srv := httptest.NewServer(httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Store:              store,
		Logger:             zerolog.Nop(),
		TransactionHandler: handler.NewTransactionHandler(v),
		CategoryHandler:    handler.NewCategoryHandler(v),
		FilterHandler:      handler.NewFilterHandler(v),
		SummaryHandler:     handler.NewSummaryHandler(),
		ChartHandler:       handler.NewChartHandler(),
		ConsistencyHandler: handler.NewConsistencyHandler(),
		HealthHandler:      handler.NewHealthHandler("test", nil),
		IdempotencyStore:   idem,
	}))
	t.Cleanup(srv.Close)
	return srv
}

// NewPostgresPool connects to DATABASE_URL, migrates it and empties the slots
// table. It skips the test when no database is configured.
func NewPostgresPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := postgres.RunMigrations(dbURL, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 4, 1)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, "TRUNCATE slots"); err != nil {
		t.Fatalf("failed to truncate slots: %v", err)
	}

	return pool
}
