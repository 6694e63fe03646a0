package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
)

type reply struct {
	res predict.Result
	err error
}

type call struct {
	picks   [draft.PickSlots]int
	player  int
	release chan reply
}

// gatedEngine blocks every prediction until the test releases it. It ignores
// cancellation, like a computation that cannot be interrupted.
type gatedEngine struct {
	ready atomic.Bool
	mu    sync.Mutex
	calls []*call
	made  chan *call
}

func newGatedEngine() *gatedEngine {
	e := &gatedEngine{made: make(chan *call, 16)}
	e.ready.Store(true)
	return e
}

func (e *gatedEngine) Ready() bool { return e.ready.Load() }

func (e *gatedEngine) Predict(ctx context.Context, picks [draft.PickSlots]int, player int) (predict.Result, error) {
	c := &call{picks: picks, player: player, release: make(chan reply, 1)}
	e.mu.Lock()
	e.calls = append(e.calls, c)
	e.mu.Unlock()
	e.made <- c
	r := <-c.release
	return r.res, r.err
}

func (e *gatedEngine) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-e.made:
		return c
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for a prediction call")
		return nil
	}
}

func (e *gatedEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func recvResolution(t *testing.T, ch <-chan Resolution) Resolution {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for resolution")
		return Resolution{}
	}
}

func keystone(id int) predict.Result {
	return predict.Result{Keystone: []predict.Probability{{ID: id, Probability: 0.9}}}
}

type fixture struct {
	ledger  *draft.Ledger
	engine  *gatedEngine
	orch    *Orchestrator
	results chan Resolution
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ledger:  draft.NewLedger(),
		engine:  newGatedEngine(),
		results: make(chan Resolution, 16),
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	f.orch = New(ctx, f.engine, func(r Resolution) { f.results <- r }, nil)
	return f
}

func (f *fixture) fill(n int) {
	for i := range n {
		team, idx := draft.TeamBlue, i
		if i >= draft.SlotsPerTeam {
			team, idx = draft.TeamRed, i-draft.SlotsPerTeam
		}
		_ = f.ledger.Place(draft.Pick(team, idx), draft.Champion{ID: fmt.Sprintf("c%d", i), Key: i + 1})
	}
}

func TestEligibilityGating(t *testing.T) {
	f := newFixture(t)
	focus := draft.Pick(draft.TeamBlue, 0)

	st := f.orch.Evaluate(f.ledger, draft.SlotRef{}, false)
	assert.Equal(t, ReasonNoFocus, st.Reason)

	st = f.orch.Evaluate(f.ledger, focus, true)
	assert.Equal(t, ReasonNoFocus, st.Reason, "focused slot is empty")

	f.fill(9)
	st = f.orch.Evaluate(f.ledger, focus, true)
	assert.Equal(t, PhaseNotReady, st.Phase)
	assert.Equal(t, ReasonPicksIncomplete, st.Reason)
	assert.Equal(t, "Complete all 10 picks to see runes prediction", st.Message)
	assert.Zero(t, f.engine.callCount())

	f.engine.ready.Store(false)
	_ = f.ledger.Place(draft.Pick(draft.TeamRed, 4), draft.Champion{ID: "c9", Key: 10})
	st = f.orch.Evaluate(f.ledger, focus, true)
	assert.Equal(t, ReasonEngineNotReady, st.Reason)

	f.engine.ready.Store(true)
	st = f.orch.Evaluate(f.ledger, focus, true)
	assert.Equal(t, PhasePending, st.Phase)
	assert.Equal(t, uint64(1), st.RequestID)

	c := f.engine.next(t)
	assert.Equal(t, 0, c.player)
	assert.Equal(t, [draft.PickSlots]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, c.picks)
}

func TestPlayerIndexForRedSide(t *testing.T) {
	f := newFixture(t)
	f.fill(10)
	f.orch.Evaluate(f.ledger, draft.Pick(draft.TeamRed, 2), true)
	assert.Equal(t, 7, f.engine.next(t).player)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	for _, order := range []string{"newer first", "older first"} {
		t.Run(order, func(t *testing.T) {
			f := newFixture(t)
			f.fill(10)
			focus := draft.Pick(draft.TeamBlue, 1)

			f.orch.Evaluate(f.ledger, focus, true)
			r1 := f.engine.next(t)

			// still eligible, different picks
			_ = f.ledger.Place(draft.Pick(draft.TeamRed, 4), draft.Champion{ID: "late", Key: 99})
			st := f.orch.Evaluate(f.ledger, focus, true)
			require.Equal(t, uint64(2), st.RequestID)
			r2 := f.engine.next(t)
			assert.Equal(t, 99, r2.picks[9])

			if order == "newer first" {
				r2.release <- reply{res: keystone(2)}
				assert.True(t, f.orch.Resolve(recvResolution(t, f.results)))
				r1.release <- reply{res: keystone(1)}
				assert.False(t, f.orch.Resolve(recvResolution(t, f.results)))
			} else {
				r1.release <- reply{res: keystone(1)}
				assert.False(t, f.orch.Resolve(recvResolution(t, f.results)))
				r2.release <- reply{res: keystone(2)}
				assert.True(t, f.orch.Resolve(recvResolution(t, f.results)))
			}

			cur := f.orch.Current()
			require.NotNil(t, cur)
			assert.Equal(t, uint64(2), cur.Request.ID)
			assert.Equal(t, 2, cur.Result.Keystone[0].ID)
			assert.Equal(t, PhaseReady, f.orch.Status().Phase)
		})
	}
}

func TestAbandonedRequestIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.fill(10)
	focus := draft.Pick(draft.TeamBlue, 1)

	f.orch.Evaluate(f.ledger, focus, true)
	r1 := f.engine.next(t)

	_ = f.ledger.Clear(focus)
	st := f.orch.Evaluate(f.ledger, focus, true)
	assert.Equal(t, ReasonNoFocus, st.Reason)
	assert.Zero(t, f.orch.Awaiting())

	r1.release <- reply{res: keystone(1)}
	assert.False(t, f.orch.Resolve(recvResolution(t, f.results)))
	assert.Nil(t, f.orch.Current())
	assert.Equal(t, PhaseNotReady, f.orch.Status().Phase)
}

func TestSameInputIsNotReissued(t *testing.T) {
	f := newFixture(t)
	f.fill(10)
	focus := draft.Pick(draft.TeamRed, 0)

	f.orch.Evaluate(f.ledger, focus, true)
	f.orch.Evaluate(f.ledger, focus, true)
	c := f.engine.next(t)
	assert.Equal(t, uint64(1), f.orch.Issued())

	c.release <- reply{res: keystone(7)}
	require.True(t, f.orch.Resolve(recvResolution(t, f.results)))

	st := f.orch.Evaluate(f.ledger, focus, true)
	assert.Equal(t, PhaseReady, st.Phase)
	assert.Equal(t, uint64(1), f.orch.Issued())

	// another player on the same draft is a new request
	f.orch.Evaluate(f.ledger, draft.Pick(draft.TeamRed, 1), true)
	assert.Equal(t, uint64(2), f.orch.Issued())
}

func TestFailureIsSurfacedAndRetryable(t *testing.T) {
	f := newFixture(t)
	f.fill(10)
	focus := draft.Pick(draft.TeamBlue, 3)

	f.orch.Evaluate(f.ledger, focus, true)
	c := f.engine.next(t)
	c.release <- reply{err: fmt.Errorf("predict: %w", predict.ErrUnknownChampion)}
	require.True(t, f.orch.Resolve(recvResolution(t, f.results)))

	st := f.orch.Status()
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.Contains(t, st.Message, "unknown champion key")
	assert.Nil(t, f.orch.Current())
	assert.Equal(t, 10, f.ledger.FilledPicks(), "draft untouched by failure")

	st = f.orch.Evaluate(f.ledger, focus, true)
	assert.Equal(t, PhasePending, st.Phase)
	assert.Equal(t, uint64(2), st.RequestID)
	f.engine.next(t)
}

func TestDuplicateResolutionIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.fill(10)
	f.orch.Evaluate(f.ledger, draft.Pick(draft.TeamBlue, 0), true)
	c := f.engine.next(t)
	c.release <- reply{res: keystone(1)}
	r := recvResolution(t, f.results)

	assert.True(t, f.orch.Resolve(r))
	assert.False(t, f.orch.Resolve(r))
	assert.False(t, f.orch.Resolve(Resolution{RequestID: 0, Err: errors.New("boom")}))
	assert.Equal(t, PhaseReady, f.orch.Status().Phase)
}

type ctxEngine struct{ started chan struct{} }

func (ctxEngine) Ready() bool { return true }

func (e ctxEngine) Predict(ctx context.Context, _ [draft.PickSlots]int, _ int) (predict.Result, error) {
	close(e.started)
	<-ctx.Done()
	return predict.Result{}, ctx.Err()
}

func TestSupersededRequestIsCancelled(t *testing.T) {
	ledger := draft.NewLedger()
	for i := range draft.SlotsPerTeam {
		_ = ledger.Place(draft.Pick(draft.TeamBlue, i), draft.Champion{ID: fmt.Sprintf("b%d", i), Key: i + 1})
		_ = ledger.Place(draft.Pick(draft.TeamRed, i), draft.Champion{ID: fmt.Sprintf("r%d", i), Key: i + 10})
	}
	results := make(chan Resolution, 4)
	eng := ctxEngine{started: make(chan struct{})}
	o := New(context.Background(), eng, func(r Resolution) { results <- r }, nil)

	o.Evaluate(ledger, draft.Pick(draft.TeamBlue, 0), true)
	<-eng.started
	o.Evaluate(ledger, draft.SlotRef{}, false)

	r := recvResolution(t, results)
	require.ErrorIs(t, r.Err, context.Canceled)
	assert.False(t, o.Resolve(r))
}
