package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

var fixedNow = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

func newRepo(t *testing.T, seed []core.Transaction) (*Repository, *storage.Store) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewStore(storage.NewMemoryBackend(), nil)
	require.NoError(t, store.Initialize(ctx, seed))
	repo, err := Open(ctx, store, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return repo, store
}

func expense(title string, amount string, category, date string) core.Input {
	return core.Input{
		Title:    title,
		Amount:   decimal.RequireFromString(amount),
		Type:     core.Expense,
		Category: category,
		Date:     date,
	}
}

func TestAddToEmptyStore(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t, nil)

	got, err := repo.Add(ctx, expense("Coffee", "5", core.CategoryFood, "2026-03-01"))
	require.NoError(t, err)

	want := core.Transaction{
		ID:       1,
		Title:    "Coffee",
		Amount:   decimal.RequireFromString("5"),
		Type:     core.Expense,
		Category: core.CategoryFood,
		Date:     "2026-03-01",
		Notes:    "",
	}
	assert.Equal(t, want, got)

	all := repo.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, want, all[0])
}

func TestAddAssignsIncreasingIDsAndPrepends(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t, nil)

	var ids []int64
	for i := 0; i < 5; i++ {
		tx, err := repo.Add(ctx, expense("Item", "1", core.CategoryOther, "2026-03-01"))
		require.NoError(t, err)
		ids = append(ids, tx.ID)
	}
	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}

	all := repo.GetAll()
	require.Len(t, all, 5)
	assert.Equal(t, int64(5), all[0].ID, "newest insertion comes first")
	assert.Equal(t, int64(1), all[4].ID)
}

func TestAddUsesMaxExistingID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t, []core.Transaction{{ID: 9, Type: core.Expense, Amount: decimal.NewFromInt(1)}, {ID: 3, Type: core.Expense, Amount: decimal.NewFromInt(1)}})

	tx, err := repo.Add(ctx, expense("Next", "2", core.CategoryOther, "2026-03-02"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), tx.ID)
}

func TestAddDefaultsDateToToday(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t, nil)

	tx, err := repo.Add(ctx, expense("Lunch", "12.5", core.CategoryFood, ""))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", tx.Date)
}

func TestAddPersistsCollection(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t, nil)

	_, err := repo.Add(ctx, expense("Coffee", "5", core.CategoryFood, "2026-03-01"))
	require.NoError(t, err)

	reopened, err := Open(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, repo.GetAll(), reopened.GetAll())
}

func TestGetByID(t *testing.T) {
	repo, _ := newRepo(t, storage.DemoTransactions())

	tx, ok := repo.GetByID(8)
	require.True(t, ok)
	assert.Equal(t, "Online Shopping", tx.Title)

	_, ok = repo.GetByID(99)
	assert.False(t, ok)
}

func TestUpdateMergesPatch(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t, storage.DemoTransactions())
	before, _ := repo.GetByID(6)

	title := "Netflix Premium"
	amount := decimal.RequireFromString("22.99")
	found, err := repo.Update(ctx, 6, core.Patch{Title: &title, Amount: &amount})
	require.NoError(t, err)
	assert.True(t, found)

	after, ok := repo.GetByID(6)
	require.True(t, ok)
	want := before
	want.Title = title
	want.Amount = amount
	assert.Equal(t, want, after)

	reopened, err := Open(ctx, store)
	require.NoError(t, err)
	persisted, _ := reopened.GetByID(6)
	assert.Equal(t, "Netflix Premium", persisted.Title)
	assert.True(t, persisted.Amount.Equal(amount))
}

func TestUpdateMissingIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t, storage.DemoTransactions())
	rev := repo.Revision()

	title := "ghost"
	found, err := repo.Update(ctx, 404, core.Patch{Title: &title})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, rev, repo.Revision())
	assert.Len(t, repo.GetAll(), 12)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t, []core.Transaction{{ID: 5, Title: "Only", Type: core.Expense, Amount: decimal.NewFromInt(1)}})

	found, err := repo.Remove(ctx, 5)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, repo.GetAll())
	_, ok := repo.GetByID(5)
	assert.False(t, ok)

	found, err = repo.Remove(ctx, 5)
	assert.NoError(t, err, "removing twice must not fail")
	assert.False(t, found)
}

func TestRemoveThenAddReusesTopID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t, nil)

	for i := 0; i < 3; i++ {
		_, err := repo.Add(ctx, expense("Item", "1", core.CategoryOther, "2026-03-01"))
		require.NoError(t, err)
	}
	_, err := repo.Remove(ctx, 3)
	require.NoError(t, err)

	tx, err := repo.Add(ctx, expense("Item", "1", core.CategoryOther, "2026-03-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), tx.ID, "id is max existing + 1")
}

func TestTypeFiltersAndTotals(t *testing.T) {
	repo, _ := newRepo(t, storage.DemoTransactions())

	expenses := repo.GetExpenses()
	income := repo.GetIncome()
	assert.Len(t, expenses, 9)
	assert.Len(t, income, 3)

	assert.Equal(t, "7100", repo.TotalFor(income).String())
	assert.Equal(t, "1626.69", repo.TotalFor(expenses).String())
	assert.True(t, repo.TotalFor(expenses).Add(repo.TotalFor(income)).Equal(repo.TotalFor(repo.GetAll())))
	assert.True(t, repo.TotalFor(nil).IsZero())
}

func TestRecent(t *testing.T) {
	repo, _ := newRepo(t, storage.DemoTransactions())
	assert.Len(t, repo.Recent(10), 10)
	assert.Len(t, repo.Recent(50), 12)
	assert.Empty(t, repo.Recent(-1))
	assert.Equal(t, int64(1), repo.Recent(1)[0].ID)
}

func TestGetAllReturnsCopy(t *testing.T) {
	repo, _ := newRepo(t, storage.DemoTransactions())
	all := repo.GetAll()
	all[0].Title = "changed"

	again := repo.GetAll()
	assert.Equal(t, "Salary Deposit", again[0].Title)
}

type failingBackend struct {
	*storage.MemoryBackend
	failPut bool
}

func (f *failingBackend) Put(ctx context.Context, key string, value []byte) error {
	if f.failPut {
		return errors.New("quota exceeded")
	}
	return f.MemoryBackend.Put(ctx, key, value)
}

func TestFailedWriteLeavesViewUnchanged(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{MemoryBackend: storage.NewMemoryBackend()}
	store := storage.NewStore(backend, nil)
	require.NoError(t, store.Initialize(ctx, storage.DemoTransactions()))
	repo, err := Open(ctx, store)
	require.NoError(t, err)
	rev := repo.Revision()

	backend.failPut = true
	_, err = repo.Add(ctx, expense("Coffee", "5", core.CategoryFood, "2026-03-01"))
	assert.Error(t, err)
	_, err = repo.Remove(ctx, 1)
	assert.Error(t, err)

	assert.Len(t, repo.GetAll(), 12)
	_, ok := repo.GetByID(1)
	assert.True(t, ok)
	assert.Equal(t, rev, repo.Revision())
}

func TestConcurrentAddsKeepIDsUnique(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Add(ctx, expense("Item", "1", core.CategoryOther, "2026-03-01"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, tx := range repo.GetAll() {
		assert.False(t, seen[tx.ID])
		seen[tx.ID] = true
	}
	assert.Len(t, seen, 20)
}

func TestOpenWithCorruptCollectionIsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, storage.KeyTransactions, []byte("{broken")))

	repo, err := Open(ctx, storage.NewStore(backend, nil))
	require.NoError(t, err)
	assert.Empty(t, repo.GetAll())
}

// gatedBackend pauses the next transactions read after capturing its bytes.
type gatedBackend struct {
	*storage.MemoryBackend
	mu      sync.Mutex
	entered chan struct{}
	release chan struct{}
}

func (g *gatedBackend) gateNextRead() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entered = make(chan struct{})
	g.release = make(chan struct{})
}

func (g *gatedBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok, err := g.MemoryBackend.Get(ctx, key)

	g.mu.Lock()
	entered, release := g.entered, g.release
	g.entered, g.release = nil, nil
	g.mu.Unlock()

	if key == storage.KeyTransactions && entered != nil {
		close(entered)
		<-release
	}
	return value, ok, err
}

func TestReloadDoesNotDropConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	backend := &gatedBackend{MemoryBackend: storage.NewMemoryBackend()}
	store := storage.NewStore(backend, nil)
	require.NoError(t, store.Initialize(ctx, storage.DemoTransactions()))
	repo, err := Open(ctx, store)
	require.NoError(t, err)

	backend.gateNextRead()
	entered, release := backend.entered, backend.release

	reloaded := make(chan struct{})
	go func() {
		defer close(reloaded)
		repo.Reload(ctx)
	}()
	<-entered

	added := make(chan core.Transaction, 1)
	go func() {
		tx, err := repo.Add(ctx, expense("first", "1", core.CategoryOther, "2026-03-01"))
		assert.NoError(t, err)
		added <- tx
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	<-reloaded
	first := <-added

	second, err := repo.Add(ctx, expense("second", "1", core.CategoryOther, "2026-03-01"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 14, repo.Len())
	_, ok := repo.GetByID(first.ID)
	assert.True(t, ok, "first add survives the reload")

	var stored []core.Transaction
	require.True(t, store.Load(ctx, storage.KeyTransactions, &stored))
	assert.Len(t, stored, 14)
}
