package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"cost-seer/domain"
)

var (
	// ErrNothingToSave is returned by Save while no estimate is held.
	ErrNothingToSave = errors.New("no estimate to save")
	// ErrBusy is returned when a save, delete or refresh is already running.
	ErrBusy = errors.New("another store operation is in progress")
	// ErrReviewing is returned by SetDraft while an estimate awaits save or discard.
	ErrReviewing = errors.New("an estimate is under review, save or discard it first")
)

// State is either Editing or Reviewing.
type State interface {
	isState()
}

// Editing means the form is open with Draft as its values.
type Editing struct {
	Draft domain.ParameterVector
}

// Reviewing means Estimate is held awaiting save or discard.
type Reviewing struct {
	Estimate domain.Estimate
}

func (Editing) isState()   {}
func (Reviewing) isState() {}

type Estimator interface {
	Estimate(v domain.ParameterVector) (domain.Estimate, error)
}

type SavedEstimates interface {
	Append(ctx context.Context, estimate domain.Estimate) (*domain.SavedEstimate, error)
	List(ctx context.Context) ([]domain.SavedEstimate, error)
	Delete(ctx context.Context, id string) error
}

// SessionController drives one user's estimate/review/save cycle.
type SessionController struct {
	engine   Estimator
	store    SavedEstimates
	notifier Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	state State
	saved []domain.SavedEstimate

	busy atomic.Bool
}

func NewSessionController(
	engine Estimator,
	store SavedEstimates,
	notifier Notifier,
	logger *slog.Logger,
) *SessionController {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &SessionController{
		engine:   engine,
		store:    store,
		notifier: notifier,
		logger:   logger,
		state:    Editing{Draft: DefaultParameters()},
		saved:    []domain.SavedEstimate{},
	}
}

// State returns the current state.
func (c *SessionController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Saved returns the most recently loaded list of saved estimates.
func (c *SessionController) Saved() []domain.SavedEstimate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.SavedEstimate, len(c.saved))
	copy(out, c.saved)
	return out
}

// Draft returns the form values: the draft while editing, or the
// parameters of the estimate under review.
func (c *SessionController) Draft() domain.ParameterVector {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch st := c.state.(type) {
	case Editing:
		return st.Draft
	case Reviewing:
		return st.Estimate.Parameters
	}
	return DefaultParameters()
}

// SetDraft replaces the form values. It is only allowed while editing.
func (c *SessionController) SetDraft(v domain.ParameterVector) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.(Editing); !ok {
		return ErrReviewing
	}
	c.state = Editing{Draft: v}
	return nil
}

// Submit estimates v and holds the result for review. Any estimate already
// held is discarded. Invalid input leaves the state untouched.
func (c *SessionController) Submit(v domain.ParameterVector) (domain.Estimate, error) {
	estimate, err := c.engine.Estimate(v)
	if err != nil {
		c.notifier.Error("All values must be greater than zero", err)
		return domain.Estimate{}, err
	}

	c.mu.Lock()
	c.state = Reviewing{Estimate: estimate}
	c.mu.Unlock()

	c.logger.Debug("estimate computed", "amount", estimate.Amount)
	c.notifier.Success("Cost estimation completed!")
	return estimate, nil
}

// Discard drops the held estimate and reopens the form with default values.
func (c *SessionController) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Editing{Draft: DefaultParameters()}
}

// Save persists the held estimate. On failure the estimate stays held so the
// caller can retry. With no signed in user nothing happens.
func (c *SessionController) Save(ctx context.Context) (*domain.SavedEstimate, error) {
	c.mu.Lock()
	reviewing, ok := c.state.(Reviewing)
	c.mu.Unlock()
	if !ok {
		return nil, ErrNothingToSave
	}

	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	saved, err := c.store.Append(ctx, reviewing.Estimate)
	if err != nil {
		c.notifier.Error("Error saving estimation", err)
		return nil, err
	}
	if saved == nil {
		c.logger.Debug("save skipped, no identity")
		return nil, nil
	}

	c.notifier.Success("Estimation saved successfully")
	c.mu.Lock()
	// Un Submit durante el guardado deja su estimación pendiente
	if current, ok := c.state.(Reviewing); ok && current.Estimate == reviewing.Estimate {
		c.state = Editing{Draft: DefaultParameters()}
	}
	c.mu.Unlock()

	// El guardado ya se completó; un fallo al recargar sólo se notifica
	if err := c.refresh(ctx); err != nil {
		c.logger.Warn("refresh after save failed", "error", err)
	}
	return saved, nil
}

// Refresh reloads the saved estimates list.
func (c *SessionController) Refresh(ctx context.Context) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)
	return c.refresh(ctx)
}

// Delete removes a saved estimate and reloads the list.
func (c *SessionController) Delete(ctx context.Context, id string) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	if err := c.store.Delete(ctx, id); err != nil {
		c.notifier.Error("Error deleting estimation", err)
		return err
	}
	c.notifier.Success("Estimation deleted successfully")

	if err := c.refresh(ctx); err != nil {
		c.logger.Warn("refresh after delete failed", "error", err)
	}
	return nil
}

func (c *SessionController) refresh(ctx context.Context) error {
	list, err := c.store.List(ctx)
	if err != nil {
		c.notifier.Error("Error fetching saved estimations", err)
		return err
	}

	c.mu.Lock()
	c.saved = list
	c.mu.Unlock()
	return nil
}
