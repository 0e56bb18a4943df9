//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-sales/internal/domain/catalog"
	domticket "lottery-sales/internal/domain/ticket"
	"lottery-sales/internal/infra"
	"lottery-sales/internal/infra/uow"
	"lottery-sales/internal/pkg/clock"
	"lottery-sales/internal/pkg/errs"
	"lottery-sales/internal/usecase/commands"
	"lottery-sales/internal/usecase/shared"
	"lottery-sales/tests/common/builder"
)

var salesTZ = time.FixedZone("AST", -4*60*60)

// =============================================================================
// Fakes
// =============================================================================

type fakeCatalog struct {
	window    *catalog.SalesWindow
	windowErr error
	limits    map[string]int32
	limitsErr error
}

func (f *fakeCatalog) SalesWindow(_ context.Context, _, _ int64) (*catalog.SalesWindow, error) {
	return f.window, f.windowErr
}

func (f *fakeCatalog) NumberLimits(_ context.Context, _, _ int64) (map[string]int32, error) {
	return f.limits, f.limitsErr
}

type fakeInvalidator struct {
	calls atomic.Int32
	err   error
}

func (f *fakeInvalidator) InvalidateScope(_ context.Context, _, _ int64, _ uuid.UUID) (int64, error) {
	f.calls.Add(1)
	return 0, f.err
}

// fakeLedger replays the transactional semantics of the quota ledger in
// memory: increments stage inside a transaction and only land on commit.
type fakeLedger struct {
	mu        sync.Mutex
	committed map[shared.QuotaKey]int32
	tickets   []*domticket.Ticket
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{committed: make(map[shared.QuotaKey]int32)}
}

type fakeUoW struct {
	ledger   *fakeLedger
	failWith error
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if u.failWith != nil {
		return u.failWith
	}
	u.ledger.mu.Lock()
	defer u.ledger.mu.Unlock()

	tx := &fakeTx{ledger: u.ledger, staged: make(map[shared.QuotaKey]int32)}
	if err := fn(ctx, tx); err != nil {
		return err // rollback: staged changes are dropped
	}
	for key, pieces := range tx.staged {
		u.ledger.committed[key] += pieces
	}
	u.ledger.tickets = append(u.ledger.tickets, tx.tickets...)
	return nil
}

type fakeTx struct {
	ledger  *fakeLedger
	staged  map[shared.QuotaKey]int32
	tickets []*domticket.Ticket
}

func (t *fakeTx) Tickets() shared.TicketRepository { return &fakeTicketRepo{tx: t} }
func (t *fakeTx) Quotas() shared.QuotaRepository   { return &fakeQuotaRepo{tx: t} }

type fakeTicketRepo struct{ tx *fakeTx }

func (r *fakeTicketRepo) Create(_ context.Context, tk *domticket.Ticket) error {
	r.tx.tickets = append(r.tx.tickets, tk)
	return nil
}

type fakeQuotaRepo struct{ tx *fakeTx }

func (r *fakeQuotaRepo) Reserve(_ context.Context, key shared.QuotaKey, maxPieces, pieces int32) (shared.ReserveResult, error) {
	current := r.tx.ledger.committed[key] + r.tx.staged[key]
	if current+pieces > maxPieces {
		return shared.ReserveResult{OK: false, Committed: current, Max: maxPieces}, nil
	}
	r.tx.staged[key] += pieces
	return shared.ReserveResult{OK: true, Committed: current + pieces, Max: maxPieces}, nil
}

// =============================================================================
// Helpers
// =============================================================================

type fixture struct {
	commands    commands.TicketCommands
	ledger      *fakeLedger
	catalog     *fakeCatalog
	invalidator *fakeInvalidator
	clock       *clock.MockClock
}

// 10:00 local, cutoff 20:30, both numbers of the default builder limited.
func newFixture() *fixture {
	ledger := newFakeLedger()
	cat := &fakeCatalog{
		window: &catalog.SalesWindow{
			ZoneID:     1,
			DrawTypeID: 1,
			Cutoff:     catalog.NewTimeOfDay(20, 30, 0),
			IsActive:   true,
		},
		limits: map[string]int32{"23": 100, "47": 100},
	}
	inv := &fakeInvalidator{}
	clk := clock.NewMockClock(time.Date(2026, 8, 29, 10, 0, 0, 0, salesTZ))
	return &fixture{
		commands:    commands.NewTicketCommands(&fakeUoW{ledger: ledger}, cat, inv, clk, salesTZ),
		ledger:      ledger,
		catalog:     cat,
		invalidator: inv,
		clock:       clk,
	}
}

func (f *fixture) ledgerTotal(number string) int32 {
	key := shared.QuotaKey{
		ZoneID:     1,
		DrawTypeID: 1,
		SalesDate:  time.Date(2026, 8, 29, 0, 0, 0, 0, salesTZ),
		Number:     number,
	}
	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	return f.ledger.committed[key]
}

// =============================================================================
// IssueTicket
// =============================================================================

func TestIssueTicket_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	id, err := f.commands.IssueTicket(ctx, builder.NewTicketBuilder().BuildInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	assert.Equal(t, int32(5), f.ledgerTotal("23"))
	assert.Equal(t, int32(2), f.ledgerTotal("47"))
	require.Len(t, f.ledger.tickets, 1)
	assert.Equal(t, id, f.ledger.tickets[0].ID())
	assert.Equal(t, int32(1), f.invalidator.calls.Load())
}

func TestIssueTicket_UnlimitedNumberSkipsLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.catalog.limits = map[string]int32{"23": 100} // "47" carries no limit

	_, err := f.commands.IssueTicket(ctx, builder.NewTicketBuilder().BuildInput())
	require.NoError(t, err)

	assert.Equal(t, int32(5), f.ledgerTotal("23"))
	assert.Equal(t, int32(0), f.ledgerTotal("47"))
}

func TestIssueTicket_InvalidRequest(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name  string
		input commands.IssueTicketInput
	}{
		{
			name:  "no lines",
			input: builder.NewTicketBuilder().With(func(b *builder.TicketBuilder) { b.Lines = nil }).BuildInput(),
		},
		{
			name: "bad number",
			input: builder.NewTicketBuilder().With(func(b *builder.TicketBuilder) {
				b.Lines[0].Number = "7"
			}).BuildInput(),
		},
		{
			name: "zero pieces",
			input: builder.NewTicketBuilder().With(func(b *builder.TicketBuilder) {
				b.Lines[0].Pieces = 0
			}).BuildInput(),
		},
		{
			name:  "missing user",
			input: builder.NewTicketBuilder().With(func(b *builder.TicketBuilder) { b.UserID = uuid.Nil }).BuildInput(),
		},
		{
			name:  "missing zone",
			input: builder.NewTicketBuilder().With(func(b *builder.TicketBuilder) { b.ZoneID = 0 }).BuildInput(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.commands.IssueTicket(ctx, tc.input)
			assert.ErrorIs(t, err, commands.ErrInvalidRequest)
			assert.Equal(t, int32(0), f.invalidator.calls.Load())
			assert.Empty(t, f.ledger.tickets)
		})
	}
}

func TestIssueTicket_WindowClosed(t *testing.T) {
	ctx := context.Background()

	t.Run("past cutoff", func(t *testing.T) {
		f := newFixture()
		f.clock.Set(time.Date(2026, 8, 29, 20, 30, 0, 0, salesTZ))
		_, err := f.commands.IssueTicket(ctx, builder.NewTicketBuilder().BuildInput())
		assert.ErrorIs(t, err, commands.ErrWindowClosed)
	})

	t.Run("schedule disabled", func(t *testing.T) {
		f := newFixture()
		f.catalog.window.IsActive = false
		_, err := f.commands.IssueTicket(ctx, builder.NewTicketBuilder().BuildInput())
		assert.ErrorIs(t, err, commands.ErrWindowClosed)
	})

	t.Run("schedule missing", func(t *testing.T) {
		f := newFixture()
		f.catalog.window = nil
		f.catalog.windowErr = infra.WrapRepoErr("draw schedule not found", errors.New("no rows"), infra.KindNotFound)
		_, err := f.commands.IssueTicket(ctx, builder.NewTicketBuilder().BuildInput())
		assert.ErrorIs(t, err, commands.ErrWindowClosed)
	})
}

func TestIssueTicket_QuotaExceeded(t *testing.T) {
	ctx := context.Background()

	t.Run("one line over cap rolls back the whole ticket", func(t *testing.T) {
		f := newFixture()
		f.catalog.limits = map[string]int32{"23": 3, "47": 100}

		_, err := f.commands.IssueTicket(ctx, builder.NewTicketBuilder().BuildInput())
		require.ErrorIs(t, err, commands.ErrQuotaExceeded)

		var quotaErr *commands.QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
		require.Len(t, quotaErr.Violations, 1)
		assert.Equal(t, "23", quotaErr.Violations[0].Number)
		assert.Equal(t, int32(5), quotaErr.Violations[0].Requested)
		assert.Equal(t, int32(3), quotaErr.Violations[0].Remaining)

		// Atomicity: the passing line must not leak into the ledger.
		assert.Equal(t, int32(0), f.ledgerTotal("23"))
		assert.Equal(t, int32(0), f.ledgerTotal("47"))
		assert.Empty(t, f.ledger.tickets)
		assert.Equal(t, int32(0), f.invalidator.calls.Load())
	})

	t.Run("all failing lines are reported", func(t *testing.T) {
		f := newFixture()
		f.catalog.limits = map[string]int32{"23": 1, "47": 1}

		_, err := f.commands.IssueTicket(ctx, builder.NewTicketBuilder().BuildInput())
		var quotaErr *commands.QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
		assert.Len(t, quotaErr.Violations, 2)
	})

	t.Run("remaining reflects earlier sales", func(t *testing.T) {
		f := newFixture()
		f.catalog.limits = map[string]int32{"23": 8}

		first := builder.NewTicketBuilder().With(func(b *builder.TicketBuilder) {
			b.Lines = []domticket.LineInput{{Number: "23", Pieces: 5}}
		}).BuildInput()
		_, err := f.commands.IssueTicket(ctx, first)
		require.NoError(t, err)

		second := builder.NewTicketBuilder().With(func(b *builder.TicketBuilder) {
			b.Lines = []domticket.LineInput{{Number: "23", Pieces: 5}}
		}).BuildInput()
		_, err = f.commands.IssueTicket(ctx, second)

		var quotaErr *commands.QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
		require.Len(t, quotaErr.Violations, 1)
		assert.Equal(t, int32(3), quotaErr.Violations[0].Remaining)
	})
}

func TestIssueTicket_ServiceUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	failing := &fakeUoW{failWith: errs.Mark(errors.New("serialization failure"), uow.ErrMaxRetriesExceeded)}
	cmds := commands.NewTicketCommands(failing, f.catalog, f.invalidator, f.clock, salesTZ)

	_, err := cmds.IssueTicket(ctx, builder.NewTicketBuilder().BuildInput())
	assert.ErrorIs(t, err, commands.ErrServiceUnavailable)
}

func TestIssueTicket_InvalidationFailureDoesNotFailSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.invalidator.err = errors.New("redis down")

	id, err := f.commands.IssueTicket(ctx, builder.NewTicketBuilder().BuildInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

// =============================================================================
// Concurrency
// =============================================================================

// 200 one-piece requests race for a cap of 100: exactly 100 must land.
func TestIssueTicket_ConcurrentSalesNeverExceedCap(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.catalog.limits = map[string]int32{"77": 100}

	const attempts = 200
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			input := builder.NewTicketBuilder().With(func(b *builder.TicketBuilder) {
				b.Lines = []domticket.LineInput{{Number: "77", Pieces: 1}}
			}).BuildInput()
			_, err := f.commands.IssueTicket(ctx, input)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, commands.ErrQuotaExceeded):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), succeeded.Load())
	assert.Equal(t, int32(100), rejected.Load())
	assert.Equal(t, int32(100), f.ledgerTotal("77"))
	assert.Len(t, f.ledger.tickets, 100)
}
