// Package importflow drives the lifecycle of one recipe import:
// Idle -> Validating -> InProgress(step...) -> Success | Error.
//
// A Machine belongs to one add-recipe screen. It runs at most one import at a
// time, only moves steps forward, and once discarded never changes state or
// notifies subscribers again.
package importflow

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/recipekeeper/internal/client/importer"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

// Ledger is the local token balance mirror.
type Ledger interface {
	CanAfford(amount int) bool
	Balance() int
	Refresh(ctx context.Context) (int, error)
}

// Gateway runs one import on the backend.
type Gateway interface {
	Import(ctx context.Context, req models.ImportRequest, progress models.ProgressFunc) (models.RecipeImportResult, error)
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// Machine tracks one import screen: Idle, Validating, InProgress, then
// Success or Error. It is safe for concurrent use.
type Machine struct {
	ledger  Ledger
	gateway Gateway
	log     logging.Logger

	mu             sync.Mutex
	state          models.ImportState
	run            uint64
	cancel         context.CancelFunc
	subs           map[int]func(models.ImportState)
	nextSub        int
	onInsufficient func(InsufficientTokensError)
	pending        []models.ImportState
	seq            uint64

	// deliveries run in the order their transitions were applied
	deliverMu   sync.Mutex
	deliverCond *sync.Cond
	delivered   uint64

	discarded atomic.Bool
}

// New returns an Idle machine that checks balances with ledger and runs
// imports through gateway.
func New(ledger Ledger, gateway Gateway, opts ...Option) *Machine {
	m := &Machine{
		ledger:  ledger,
		gateway: gateway,
		log:     logging.NewNopLogger(),
		subs:    make(map[int]func(models.ImportState)),
	}
	m.deliverCond = sync.NewCond(&m.deliverMu)
	for _, o := range opts {
		o(m)
	}
	return m
}

// State returns the current state value.
func (m *Machine) State() models.ImportState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn for every subsequent state change. Callbacks run
// one at a time in transition order, possibly on the import goroutine. They
// may call State or Discard, but not Submit or Reset.
func (m *Machine) Subscribe(fn func(models.ImportState)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// OnInsufficientTokens sets the purchase-prompt hook. It fires when the local
// balance cannot cover an import and when the backend rejects one for lack
// of tokens.
func (m *Machine) OnInsufficientTokens(fn func(InsufficientTokensError)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onInsufficient = fn
}

// Submit validates req, checks the balance and runs the import, blocking
// until it finishes. A previous Success or Error is replaced.
func (m *Machine) Submit(ctx context.Context, req models.ImportRequest) (*models.ImportSummary, error) {
	m.mu.Lock()

	if m.discarded.Load() {
		m.mu.Unlock()
		return nil, ErrDiscarded
	}
	if m.state.Busy() {
		m.mu.Unlock()
		return nil, ErrImportInProgress
	}
	if m.state.Phase != models.PhaseIdle {
		m.setLocked(models.ImportState{Phase: models.PhaseIdle})
	}

	c, err := importer.ClassifyRequest(req)
	if err != nil {
		m.unlockAndNotify()
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	m.setLocked(models.ImportState{Phase: models.PhaseValidating})

	if !m.ledger.CanAfford(c.Cost) {
		ite := InsufficientTokensError{Required: c.Cost, Available: m.ledger.Balance()}
		m.setLocked(models.ImportState{Phase: models.PhaseIdle})
		hook := m.onInsufficient
		m.unlockAndNotify()

		m.log.Info(ctx, "import blocked by balance", "cost", ite.Required, "balance", ite.Available)
		m.fireInsufficient(hook, ite)
		return nil, &ite
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.run++
	run := m.run
	m.cancel = cancel
	m.setLocked(models.ImportState{Phase: models.PhaseInProgress, Step: models.StepFetching})
	m.unlockAndNotify()

	log := m.log.With("kind", c.Kind, "cost", c.Cost)
	log.Info(ctx, "import started")

	res, err := m.call(runCtx, req, func(step models.Step) { m.advance(run, step) })
	cancel()

	m.mu.Lock()
	m.cancel = nil
	if m.discarded.Load() || m.run != run {
		m.mu.Unlock()
		log.Info(ctx, "import result dropped, screen closed")
		return nil, ErrDiscarded
	}

	if err != nil {
		reason := reasonFor(err)
		m.setLocked(models.ImportState{Phase: models.PhaseError, Message: UserMessage(err), Reason: reason})
		hook := m.onInsufficient
		m.unlockAndNotify()

		log.Warn(ctx, "import failed", "reason", reason, "error", err)
		if reason == models.ReasonInsufficientTokens {
			available, _ := m.ledger.Refresh(ctx)
			m.fireInsufficient(hook, InsufficientTokensError{Required: c.Cost, Available: available})
		}
		return nil, err
	}

	summary := res.Summary()
	if m.state.Step < models.StepSaving {
		m.setLocked(models.ImportState{Phase: models.PhaseInProgress, Step: models.StepSaving})
	}
	m.setLocked(models.ImportState{Phase: models.PhaseSuccess, Result: &summary})
	m.unlockAndNotify()

	log.Info(ctx, "import succeeded", "recipe_id", summary.RecipeID)

	// the backend debits atomically with the import; mirror its balance
	if _, err := m.ledger.Refresh(ctx); err != nil {
		log.Warn(ctx, "balance refresh after import failed", "error", err)
	}
	return &summary, nil
}

// Reset returns a finished machine to Idle, e.g. when the user dismisses the
// result. It does nothing while an import runs.
func (m *Machine) Reset() {
	m.mu.Lock()
	if m.discarded.Load() || m.state.Busy() || m.state.Phase == models.PhaseIdle {
		m.mu.Unlock()
		return
	}
	m.setLocked(models.ImportState{Phase: models.PhaseIdle})
	m.unlockAndNotify()
}

// Discard cancels any running import and detaches all subscribers. The
// machine is unusable afterwards.
func (m *Machine) Discard() {
	m.discarded.Store(true)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.subs = map[int]func(models.ImportState){}
	m.pending = nil
}

// Discarded reports whether Discard was called.
func (m *Machine) Discarded() bool {
	return m.discarded.Load()
}

func (m *Machine) advance(run uint64, step models.Step) {
	m.mu.Lock()
	if m.discarded.Load() || run != m.run || m.state.Phase != models.PhaseInProgress || step <= m.state.Step {
		m.mu.Unlock()
		return
	}
	m.setLocked(models.ImportState{Phase: models.PhaseInProgress, Step: step})
	m.unlockAndNotify()
}

// call shields the machine from a panicking gateway.
func (m *Machine) call(ctx context.Context, req models.ImportRequest, progress models.ProgressFunc) (res models.RecipeImportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error(ctx, "import gateway panicked", "panic", r)
			err = fmt.Errorf("import gateway panic: %v", r)
		}
	}()
	return m.gateway.Import(ctx, req, progress)
}

func (m *Machine) fireInsufficient(hook func(InsufficientTokensError), e InsufficientTokensError) {
	if hook == nil || m.discarded.Load() {
		return
	}
	hook(e)
}

func (m *Machine) setLocked(s models.ImportState) {
	m.state = s
	m.pending = append(m.pending, s)
}

// unlockAndNotify releases mu and delivers the states queued under it.
func (m *Machine) unlockAndNotify() {
	states := m.pending
	m.pending = nil
	subs := make([]func(models.ImportState), 0, len(m.subs))
	for i := 0; i < m.nextSub; i++ {
		if fn, ok := m.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	seq := m.seq
	m.seq++
	m.mu.Unlock()

	m.deliverMu.Lock()
	for m.delivered != seq {
		m.deliverCond.Wait()
	}
	m.deliverMu.Unlock()

	defer func() {
		m.deliverMu.Lock()
		m.delivered++
		m.deliverCond.Broadcast()
		m.deliverMu.Unlock()
	}()

	for _, s := range states {
		for _, fn := range subs {
			if m.discarded.Load() {
				return
			}
			fn(s)
		}
	}
}
