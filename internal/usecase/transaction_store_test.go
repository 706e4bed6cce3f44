package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/moneybook/internal/adapter/repository/memory"
	"github.com/iho/moneybook/internal/domain"
	"github.com/iho/moneybook/internal/usecase"
	"github.com/iho/moneybook/internal/usecase/mocks"
)

type sequentialIDs struct {
	n int
}

func (g *sequentialIDs) Generate() string {
	g.n++
	return fmt.Sprintf("tx-%03d", g.n)
}

func input(date string, typ domain.TransactionType, amount int64, category string) domain.TransactionInput {
	return domain.TransactionInput{
		Date:        domain.MustParseDate(date),
		Description: fmt.Sprintf("%s %s", category, date),
		Amount:      decimal.NewFromInt(amount),
		Type:        typ,
		CategoryID:  category,
	}
}

func newStore(t *testing.T, slots usecase.SlotStore, validate bool) *usecase.TransactionStore {
	t.Helper()
	return usecase.NewTransactionStore(context.Background(), usecase.StoreConfig{
		Slots:    slots,
		IDGen:    &sequentialIDs{},
		Validate: validate,
	})
}

func requireSameTransactions(t *testing.T, want, got []domain.Transaction) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Truef(t, want[i].Equal(got[i]), "index %d: want %+v, got %+v", i, want[i], got[i])
	}
}

func TestNewTransactionStore_Initialization(t *testing.T) {
	ctx := context.Background()

	t.Run("empty slots seed defaults and persist categories", func(t *testing.T) {
		slots := memory.NewSlotStore()
		store := newStore(t, slots, true)

		assert.Empty(t, store.Transactions())
		assert.Equal(t, domain.DefaultCategories(), store.Categories())
		assert.Nil(t, store.DateRange())

		raw, err := slots.Get(ctx, usecase.DefaultCategoriesSlot)
		require.NoError(t, err)
		var persisted []domain.Category
		require.NoError(t, json.Unmarshal(raw, &persisted))
		assert.Equal(t, domain.DefaultCategories(), persisted)

		_, err = slots.Get(ctx, usecase.DefaultTransactionsSlot)
		assert.ErrorIs(t, err, domain.ErrSlotNotFound, "transactions slot is not written at startup")
	})

	t.Run("present slots are adopted", func(t *testing.T) {
		slots := memory.NewSlotStore()
		require.NoError(t, slots.Set(ctx, usecase.DefaultTransactionsSlot,
			[]byte(`[{"id":"a","date":"2024-01-15","description":"pay","amount":"100","type":"income","categoryId":"salary"}]`)))
		require.NoError(t, slots.Set(ctx, usecase.DefaultCategoriesSlot,
			[]byte(`[{"id":"salary","name":"Salary","type":"income","color":"#4CAF50"}]`)))

		store := newStore(t, slots, true)

		txs := store.Transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, "a", txs[0].ID)
		assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, "2024-01-15", txs[0].Date.String())
		require.Len(t, store.Categories(), 1)
	})

	t.Run("legacy numeric amounts and timestamps are accepted", func(t *testing.T) {
		slots := memory.NewSlotStore()
		require.NoError(t, slots.Set(ctx, usecase.DefaultTransactionsSlot,
			[]byte(`[{"id":"a","date":"2024-01-15T00:00:00.000Z","description":"pay","amount":12.5,"type":"income","categoryId":"salary"}]`)))

		store := newStore(t, slots, true)

		txs := store.Transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, "2024-01-15", txs[0].Date.String())
		assert.Equal(t, "12.5", txs[0].Amount.String())
	})

	t.Run("unparseable slots fall back to defaults", func(t *testing.T) {
		slots := memory.NewSlotStore()
		require.NoError(t, slots.Set(ctx, usecase.DefaultTransactionsSlot, []byte(`{not json`)))
		require.NoError(t, slots.Set(ctx, usecase.DefaultCategoriesSlot, []byte(`"nope"`)))

		store := newStore(t, slots, true)

		assert.Empty(t, store.Transactions())
		assert.Equal(t, domain.DefaultCategories(), store.Categories())

		raw, err := slots.Get(ctx, usecase.DefaultCategoriesSlot)
		require.NoError(t, err)
		assert.NotEqual(t, `"nope"`, string(raw), "default categories overwrite the corrupt slot")
	})
}

func TestTransactionStore_AddTransaction(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotStore()
	store := newStore(t, slots, true)

	first, err := store.AddTransaction(ctx, input("2024-01-15", domain.TransactionTypeIncome, 100, "salary"))
	require.NoError(t, err)
	before := store.Transactions()

	in := input("2024-01-20", domain.TransactionTypeExpense, 40, "food")
	added, err := store.AddTransaction(ctx, in)
	require.NoError(t, err)

	after := store.Transactions()
	require.Len(t, after, len(before)+1)
	assert.NotEqual(t, first.ID, added.ID)
	assert.True(t, in.WithID(added.ID).Equal(after[len(after)-1]))
	requireSameTransactions(t, before, after[:len(before)])

	raw, err := slots.Get(ctx, usecase.DefaultTransactionsSlot)
	require.NoError(t, err)
	var persisted []domain.Transaction
	require.NoError(t, json.Unmarshal(raw, &persisted))
	requireSameTransactions(t, after, persisted)
}

func TestTransactionStore_AddTransaction_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.TransactionInput
		wantErr error
	}{
		{
			name:    "zero amount",
			input:   input("2024-01-15", domain.TransactionTypeExpense, 0, "food"),
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			input:   input("2024-01-15", domain.TransactionTypeExpense, -5, "food"),
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "blank description",
			input: domain.TransactionInput{
				Date:        domain.MustParseDate("2024-01-15"),
				Description: "   ",
				Amount:      decimal.NewFromInt(5),
				Type:        domain.TransactionTypeExpense,
				CategoryID:  "food",
			},
			wantErr: domain.ErrEmptyDescription,
		},
		{
			name:    "missing date",
			input:   domain.TransactionInput{Description: "x", Amount: decimal.NewFromInt(5), Type: domain.TransactionTypeExpense, CategoryID: "food"},
			wantErr: domain.ErrInvalidDate,
		},
		{
			name:    "unknown type",
			input:   input("2024-01-15", domain.TransactionType("transfer"), 5, "food"),
			wantErr: domain.ErrInvalidTransactionType,
		},
		{
			name:    "unknown category",
			input:   input("2024-01-15", domain.TransactionTypeExpense, 5, "rent"),
			wantErr: domain.ErrCategoryNotFound,
		},
		{
			name:    "category type mismatch",
			input:   input("2024-01-15", domain.TransactionTypeExpense, 5, "salary"),
			wantErr: domain.ErrCategoryTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t, memory.NewSlotStore(), true)

			_, err := store.AddTransaction(context.Background(), tt.input)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.Transactions())
		})
	}
}

func TestTransactionStore_AddTransaction_WithoutValidation(t *testing.T) {
	store := newStore(t, memory.NewSlotStore(), false)

	added, err := store.AddTransaction(context.Background(), input("2024-01-15", domain.TransactionTypeExpense, -5, "rent"))

	require.NoError(t, err)
	assert.Equal(t, "rent", added.CategoryID)
	assert.Len(t, store.Transactions(), 1)
}

func TestTransactionStore_UpdateTransaction(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.NewSlotStore(), true)

	a, err := store.AddTransaction(ctx, input("2024-01-15", domain.TransactionTypeIncome, 100, "salary"))
	require.NoError(t, err)
	b, err := store.AddTransaction(ctx, input("2024-01-20", domain.TransactionTypeExpense, 40, "food"))
	require.NoError(t, err)

	t.Run("replaces in place", func(t *testing.T) {
		changed := a
		changed.Amount = decimal.NewFromInt(150)

		updated, err := store.UpdateTransaction(ctx, changed)

		require.NoError(t, err)
		assert.True(t, updated)
		txs := store.Transactions()
		require.Len(t, txs, 2)
		assert.True(t, changed.Equal(txs[0]))
		assert.True(t, b.Equal(txs[1]))
	})

	t.Run("unknown id leaves state unchanged", func(t *testing.T) {
		before := store.Transactions()
		ghost := b
		ghost.ID = "ghost"

		updated, err := store.UpdateTransaction(ctx, ghost)

		require.NoError(t, err)
		assert.False(t, updated)
		requireSameTransactions(t, before, store.Transactions())
	})

	t.Run("invalid replacement is rejected", func(t *testing.T) {
		before := store.Transactions()
		bad := b
		bad.Amount = decimal.Zero

		updated, err := store.UpdateTransaction(ctx, bad)

		require.ErrorIs(t, err, domain.ErrInvalidAmount)
		assert.False(t, updated)
		requireSameTransactions(t, before, store.Transactions())
	})
}

func TestTransactionStore_DeleteTransaction(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.NewSlotStore(), true)

	var added []domain.Transaction
	for _, in := range []domain.TransactionInput{
		input("2024-01-15", domain.TransactionTypeIncome, 100, "salary"),
		input("2024-01-20", domain.TransactionTypeExpense, 40, "food"),
		input("2024-02-01", domain.TransactionTypeIncome, 50, "freelance"),
	} {
		tx, err := store.AddTransaction(ctx, in)
		require.NoError(t, err)
		added = append(added, tx)
	}

	assert.True(t, store.DeleteTransaction(ctx, added[1].ID))
	requireSameTransactions(t, []domain.Transaction{added[0], added[2]}, store.Transactions())

	assert.False(t, store.DeleteTransaction(ctx, added[1].ID))
	assert.Len(t, store.Transactions(), 2)
}

func TestTransactionStore_DateRangeFilter(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.NewSlotStore(), true)

	dates := []string{"2024-03-10", "2024-01-01", "2024-01-31", "2024-02-15", "2023-12-31"}
	for i, d := range dates {
		typ, cat := domain.TransactionTypeIncome, "salary"
		if i%2 == 1 {
			typ, cat = domain.TransactionTypeExpense, "food"
		}
		_, err := store.AddTransaction(ctx, input(d, typ, int64(10*(i+1)), cat))
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		start string
		end   string
		want  []string
	}{
		{"january inclusive", "2024-01-01", "2024-01-31", []string{"2024-01-01", "2024-01-31"}},
		{"single day", "2024-02-15", "2024-02-15", []string{"2024-02-15"}},
		{"everything", "2023-01-01", "2025-01-01", dates},
		{"nothing", "2022-01-01", "2022-12-31", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &domain.DateRange{StartDate: domain.MustParseDate(tt.start), EndDate: domain.MustParseDate(tt.end)}
			require.NoError(t, store.SetDateRangeFilter(r))

			got := make([]string, 0)
			for _, tx := range store.FilteredTransactions() {
				got = append(got, tx.Date.String())
			}
			assert.Equal(t, tt.want, got)

			totals := store.Totals()
			assert.True(t, totals.Income.Sub(totals.Expense).Equal(totals.Balance))
			assert.True(t, store.TotalIncome().Sub(store.TotalExpense()).Equal(store.Balance()))
		})
	}

	t.Run("clearing restores the full sequence", func(t *testing.T) {
		require.NoError(t, store.SetDateRangeFilter(nil))
		assert.Nil(t, store.DateRange())
		requireSameTransactions(t, store.Transactions(), store.FilteredTransactions())
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		r := &domain.DateRange{StartDate: domain.MustParseDate("2024-02-01"), EndDate: domain.MustParseDate("2024-01-01")}
		require.ErrorIs(t, store.SetDateRangeFilter(r), domain.ErrInvalidDateRange)
		assert.Nil(t, store.DateRange())
	})

	t.Run("caller cannot mutate the active filter", func(t *testing.T) {
		r := &domain.DateRange{StartDate: domain.MustParseDate("2024-01-01"), EndDate: domain.MustParseDate("2024-01-31")}
		require.NoError(t, store.SetDateRangeFilter(r))
		r.EndDate = domain.MustParseDate("2030-01-01")
		assert.Equal(t, "2024-01-31", store.DateRange().EndDate.String())
	})
}

func TestTransactionStore_Totals(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.NewSlotStore(), true)

	_, err := store.AddTransaction(ctx, input("2024-01-15", domain.TransactionTypeIncome, 100, "salary"))
	require.NoError(t, err)
	_, err = store.AddTransaction(ctx, input("2024-01-20", domain.TransactionTypeExpense, 140, "food"))
	require.NoError(t, err)

	assert.Equal(t, "100", store.TotalIncome().String())
	assert.Equal(t, "140", store.TotalExpense().String())
	assert.Equal(t, "-40", store.Balance().String())
}

func TestTransactionStore_Aggregations(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.NewSlotStore(), false)

	for _, in := range []domain.TransactionInput{
		input("2024-01-15", domain.TransactionTypeExpense, 20, "food"),
		input("2024-01-16", domain.TransactionTypeExpense, 30, "food"),
		input("2024-02-01", domain.TransactionTypeExpense, 99, "no-such-category"),
		input("2024-02-03", domain.TransactionTypeIncome, 500, "salary"),
	} {
		_, err := store.AddTransaction(ctx, in)
		require.NoError(t, err)
	}

	dropped := store.CategoryTotals(domain.TransactionTypeExpense, domain.WithoutUncategorized())
	require.Len(t, dropped, 1)
	assert.Equal(t, "food", dropped[0].CategoryID)
	assert.Equal(t, "50", dropped[0].Amount.String())

	bucketed := store.CategoryTotals(domain.TransactionTypeExpense)
	require.Len(t, bucketed, 2)
	assert.Equal(t, domain.UncategorizedID, bucketed[0].CategoryID)
	assert.Equal(t, "99", bucketed[0].Amount.String())

	monthly := store.MonthlyTotals()
	require.Len(t, monthly, 2)
	assert.Equal(t, "Jan 2024", monthly[0].Label)
	assert.Equal(t, "Feb 2024", monthly[1].Label)

	assert.Equal(t, "Food", store.CategoryName("food"))
	assert.Equal(t, domain.UnknownCategoryName, store.CategoryName("no-such-category"))

	sorted := store.SortedTransactions(domain.SortByAmount, domain.SortDesc)
	require.Len(t, sorted, 4)
	assert.Equal(t, "500", sorted[0].Amount.String())
	assert.Equal(t, "20", sorted[3].Amount.String())
}

func TestTransactionStore_SetCategories(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotStore()
	store := newStore(t, slots, true)

	categories := []domain.Category{
		{ID: "rent", Name: "Rent", Type: domain.TransactionTypeExpense, Color: "#000000"},
	}
	require.NoError(t, store.SetCategories(ctx, categories))
	assert.Equal(t, categories, store.Categories())

	raw, err := slots.Get(ctx, usecase.DefaultCategoriesSlot)
	require.NoError(t, err)
	var persisted []domain.Category
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, categories, persisted)

	err = store.SetCategories(ctx, append(categories, categories[0]))
	require.ErrorIs(t, err, domain.ErrDuplicateCategory)
	assert.Equal(t, categories, store.Categories())
}

func TestTransactionStore_Submit(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.NewSlotStore(), true)

	created, err := store.Submit(ctx, domain.Creating{}, input("2024-01-15", domain.TransactionTypeExpense, 12, "food"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	edit := input("2024-01-16", domain.TransactionTypeExpense, 15, "transport")
	edited, err := store.Submit(ctx, domain.Editing{ID: created.ID}, edit)
	require.NoError(t, err)
	assert.Equal(t, created.ID, edited.ID)

	txs := store.Transactions()
	require.Len(t, txs, 1)
	assert.True(t, edit.WithID(created.ID).Equal(txs[0]))

	_, err = store.Submit(ctx, domain.Editing{ID: "gone"}, edit)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestTransactionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotStore()
	store := newStore(t, slots, true)

	for _, in := range []domain.TransactionInput{
		input("2024-02-01", domain.TransactionTypeIncome, 50, "salary"),
		input("2024-01-15", domain.TransactionTypeIncome, 100, "freelance"),
		input("2024-01-20", domain.TransactionTypeExpense, 40, "food"),
	} {
		_, err := store.AddTransaction(ctx, in)
		require.NoError(t, err)
	}

	reopened := newStore(t, slots, true)

	requireSameTransactions(t, store.Transactions(), reopened.Transactions())
	assert.Equal(t, store.Categories(), reopened.Categories())
}

func TestTransactionStore_PersistFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	slots := mocks.NewMockSlotStore(ctrl)
	metrics := mocks.NewMockStoreMetrics(ctrl)
	ids := mocks.NewMockIDGenerator(ctrl)

	categories, err := json.Marshal(domain.DefaultCategories())
	require.NoError(t, err)

	slots.EXPECT().Get(gomock.Any(), usecase.DefaultTransactionsSlot).Return(nil, domain.ErrSlotNotFound)
	slots.EXPECT().Get(gomock.Any(), usecase.DefaultCategoriesSlot).Return(categories, nil)
	metrics.EXPECT().SetTransactionCount(0)

	store := usecase.NewTransactionStore(ctx, usecase.StoreConfig{
		Slots:    slots,
		IDGen:    ids,
		Metrics:  metrics,
		Validate: true,
	})

	quota := errors.New("quota exceeded")
	ids.EXPECT().Generate().Return("tx-1")
	slots.EXPECT().Set(gomock.Any(), usecase.DefaultTransactionsSlot, gomock.Any()).Return(quota)
	metrics.EXPECT().ObservePersistFailure(usecase.DefaultTransactionsSlot)
	metrics.EXPECT().ObserveCommand(usecase.CommandAdd, true)
	metrics.EXPECT().SetTransactionCount(1)

	added, err := store.AddTransaction(ctx, input("2024-01-15", domain.TransactionTypeExpense, 10, "food"))

	require.NoError(t, err, "persist failures are diagnostic only")
	assert.Equal(t, "tx-1", added.ID)
	assert.Len(t, store.Transactions(), 1)
}

func TestTransactionStore_LoadFallbackMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)

	slots := mocks.NewMockSlotStore(ctrl)
	metrics := mocks.NewMockStoreMetrics(ctrl)

	slots.EXPECT().Get(gomock.Any(), "tx").Return([]byte("garbage"), nil)
	slots.EXPECT().Get(gomock.Any(), "cats").Return(nil, domain.ErrSlotNotFound)
	slots.EXPECT().Set(gomock.Any(), "cats", gomock.Any()).Return(nil)
	metrics.EXPECT().ObserveLoadFallback("tx")
	metrics.EXPECT().SetTransactionCount(0)

	store := usecase.NewTransactionStore(context.Background(), usecase.StoreConfig{
		Slots:            slots,
		IDGen:            &sequentialIDs{},
		Metrics:          metrics,
		TransactionsSlot: "tx",
		CategoriesSlot:   "cats",
	})

	assert.Empty(t, store.Transactions())
	assert.Len(t, store.Categories(), 8)
}

func TestTransactionStore_UnreadableSlotsAreNotOverwritten(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	slots := mocks.NewMockSlotStore(ctrl)
	reset := errors.New("read tcp 10.0.0.2:6379: connection reset by peer")

	stored := []byte(`[{"id":"a","date":"2024-01-15","description":"pay","amount":"100","type":"income","categoryId":"salary"},` +
		`{"id":"b","date":"2024-01-16","description":"rent","amount":"40","type":"expense","categoryId":"mine"}]`)
	storedCategories := []byte(`[{"id":"salary","name":"Salary","type":"income","color":"#4CAF50"},` +
		`{"id":"mine","name":"Mine","type":"expense","color":"#000000"}]`)

	// No Set is expected: gomock fails the test if the store writes defaults.
	slots.EXPECT().Get(gomock.Any(), usecase.DefaultTransactionsSlot).Return(nil, reset)
	slots.EXPECT().Get(gomock.Any(), usecase.DefaultCategoriesSlot).Return(nil, reset)

	store := newStore(t, slots, false)

	assert.Empty(t, store.Transactions())
	assert.Equal(t, domain.DefaultCategories(), store.Categories())

	_, err := store.AddTransaction(ctx, input("2024-02-01", domain.TransactionTypeExpense, 5, "food"))
	require.NoError(t, err)
	require.NoError(t, store.SetCategories(ctx, domain.DefaultCategories()))

	stale, err := store.Stale(ctx)
	require.NoError(t, err)
	assert.True(t, stale, "unloaded slots ask for a reload")

	slots.EXPECT().Get(gomock.Any(), usecase.DefaultTransactionsSlot).Return(stored, nil)
	slots.EXPECT().Get(gomock.Any(), usecase.DefaultCategoriesSlot).Return(storedCategories, nil)

	require.NoError(t, store.Reload(ctx))
	require.Len(t, store.Transactions(), 2)
	require.Len(t, store.Categories(), 2)

	var written []domain.Transaction
	slots.EXPECT().Set(gomock.Any(), usecase.DefaultTransactionsSlot, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, raw []byte) error {
			return json.Unmarshal(raw, &written)
		})

	_, err = store.AddTransaction(ctx, input("2024-02-02", domain.TransactionTypeExpense, 7, "mine"))
	require.NoError(t, err)

	require.Len(t, written, 3, "writes resume with the stored transactions intact")
	assert.Equal(t, "a", written[0].ID)
	assert.Equal(t, "b", written[1].ID)
}

func TestTransactionStore_CorruptPayloadReportedOnce(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotStore()
	store := newStore(t, slots, true)

	_, err := store.AddTransaction(ctx, input("2024-01-15", domain.TransactionTypeExpense, 10, "food"))
	require.NoError(t, err)

	require.NoError(t, slots.Set(ctx, usecase.DefaultTransactionsSlot, []byte(`[{"id":`)))

	stale, err := store.Stale(ctx)
	require.NoError(t, err)
	require.True(t, stale)

	err = store.Reload(ctx)
	require.ErrorIs(t, err, domain.ErrSlotCorrupt)
	assert.Len(t, store.Transactions(), 1)

	stale, err = store.Stale(ctx)
	require.NoError(t, err)
	assert.False(t, stale, "the same corrupt payload does not trigger another reload")

	require.NoError(t, slots.Set(ctx, usecase.DefaultTransactionsSlot, []byte(`[]`)))

	stale, err = store.Stale(ctx)
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestTransactionStore_ReloadAndStale(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotStore()
	store := newStore(t, slots, true)

	stale, err := store.Stale(ctx)
	require.NoError(t, err)
	assert.False(t, stale)

	require.NoError(t, slots.Set(ctx, usecase.DefaultTransactionsSlot,
		[]byte(`[{"id":"ext","date":"2024-05-01","description":"outside","amount":"7","type":"expense","categoryId":"food"}]`)))

	stale, err = store.Stale(ctx)
	require.NoError(t, err)
	assert.True(t, stale)

	require.NoError(t, store.Reload(ctx))
	txs := store.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, "ext", txs[0].ID)

	stale, err = store.Stale(ctx)
	require.NoError(t, err)
	assert.False(t, stale)

	t.Run("unparseable slot keeps memory state", func(t *testing.T) {
		require.NoError(t, slots.Set(ctx, usecase.DefaultTransactionsSlot, []byte(`[{`)))

		err := store.Reload(ctx)

		require.Error(t, err)
		require.Len(t, store.Transactions(), 1)
		assert.Equal(t, "ext", store.Transactions()[0].ID)
	})

	t.Run("absent slot keeps memory state", func(t *testing.T) {
		require.NoError(t, slots.Delete(ctx, usecase.DefaultTransactionsSlot))

		require.NoError(t, store.Reload(ctx))
		assert.Len(t, store.Transactions(), 1)
	})
}

func TestTransactionStore_CheckConsistency(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotStore()
	store := newStore(t, slots, false)

	_, err := store.AddTransaction(ctx, input("2024-01-15", domain.TransactionTypeExpense, 10, "food"))
	require.NoError(t, err)

	report, err := store.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 1, report.TotalTransactions)

	_, err = store.AddTransaction(ctx, input("2024-01-16", domain.TransactionTypeExpense, 0, "salary"))
	require.NoError(t, err)
	_, err = store.AddTransaction(ctx, input("2024-01-17", domain.TransactionTypeExpense, 5, "gone"))
	require.NoError(t, err)
	require.NoError(t, slots.Set(ctx, usecase.DefaultCategoriesSlot, []byte(`[]`)))

	report, err = store.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.True(t, report.SlotsInSync[usecase.DefaultTransactionsSlot])
	assert.False(t, report.SlotsInSync[usecase.DefaultCategoriesSlot])

	problems := make(map[string]int)
	for _, issue := range report.Issues {
		problems[issue.Problem]++
	}
	assert.Equal(t, map[string]int{
		usecase.ProblemInvalidAmount:   1,
		usecase.ProblemTypeMismatch:    1,
		usecase.ProblemMissingCategory: 1,
	}, problems)
}

func TestStoreFromContext(t *testing.T) {
	store := newStore(t, memory.NewSlotStore(), true)

	ctx := usecase.WithStore(context.Background(), store)
	assert.Same(t, store, usecase.StoreFromContext(ctx))

	assert.Panics(t, func() {
		usecase.StoreFromContext(context.Background())
	})
}
