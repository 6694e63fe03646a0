// Package recommend decides when a rune prediction can be requested for the
// focused player and keeps exactly one request logically current.
//
// Predictions run on their own goroutine and come back as a Resolution through
// the deliver callback. The owner feeds each Resolution to Resolve from the
// same goroutine that calls Evaluate; Resolve applies it only if it answers the
// most recently issued request that is still awaited. Anything else is stale
// and dropped.
package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
)

// Engine is the prediction engine as seen by the orchestrator.
type Engine interface {
	Ready() bool
	Predict(ctx context.Context, picks [draft.PickSlots]int, player int) (predict.Result, error)
}

// Reloadable engines report a generation that changes whenever they load new
// mappings or a new model. A changed generation makes the shown result stale.
type Reloadable interface {
	Generation() uint64
}

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNoFocus         Reason = "no_focus"
	ReasonPicksIncomplete Reason = "picks_incomplete"
	ReasonEngineNotReady  Reason = "engine_not_ready"
)

func (r Reason) Message() string {
	switch r {
	case ReasonNoFocus:
		return "Select a pick slot to see rune predictions"
	case ReasonPicksIncomplete:
		return "Complete all 10 picks to see runes prediction"
	case ReasonEngineNotReady:
		return "Models not loaded"
	}
	return ""
}

type Phase string

const (
	PhaseNotReady Phase = "not_ready"
	PhasePending  Phase = "pending"
	PhaseReady    Phase = "ready"
	PhaseFailed   Phase = "failed"
)

// Status is what the recommendation panel should show.
type Status struct {
	Phase     Phase  `json:"phase"`
	Reason    Reason `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
	RequestID uint64 `json:"request_id,omitempty"`
	Player    int    `json:"player"`
}

type Request struct {
	ID     uint64               `json:"id"`
	Picks  [draft.PickSlots]int `json:"picks"`
	Player int                  `json:"player"`
	gen    uint64
}

func (r Request) sameInput(o Request) bool {
	return r.Picks == o.Picks && r.Player == o.Player && r.gen == o.gen
}

type Resolution struct {
	RequestID uint64
	Result    predict.Result
	Err       error
}

// Prediction is an applied result together with the request it answers.
type Prediction struct {
	Request Request        `json:"request"`
	Result  predict.Result `json:"result"`
}

type inflight struct {
	req    Request
	cancel context.CancelFunc
}

// Orchestrator is not safe for concurrent use; one goroutine owns it.
type Orchestrator struct {
	ctx     context.Context
	engine  Engine
	deliver func(Resolution)
	log     *zap.Logger

	issued  uint64
	pending *inflight
	last    *Request
	current *Prediction
	status  Status
}

// New returns an orchestrator whose predictions run under ctx and report back
// through deliver.
func New(ctx context.Context, engine Engine, deliver func(Resolution), log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		ctx:     ctx,
		engine:  engine,
		deliver: deliver,
		log:     log.Named("recommend"),
		status:  notReady(ReasonNoFocus),
	}
}

func notReady(r Reason) Status {
	return Status{Phase: PhaseNotReady, Reason: r, Message: r.Message()}
}

// Eligibility reports why no prediction can be requested, or ReasonNone.
func (o *Orchestrator) Eligibility(l *draft.Ledger, focus draft.SlotRef, focused bool) Reason {
	if !focused || !focus.IsPick() {
		return ReasonNoFocus
	}
	if _, ok := l.Occupant(focus); !ok {
		return ReasonNoFocus
	}
	if _, complete := l.PickSnapshot(); !complete {
		return ReasonPicksIncomplete
	}
	if o.engine == nil || !o.engine.Ready() {
		return ReasonEngineNotReady
	}
	return ReasonNone
}

// Evaluate re-checks eligibility after a ledger or focus change and issues a
// new request when the input differs from the one pending or shown.
func (o *Orchestrator) Evaluate(l *draft.Ledger, focus draft.SlotRef, focused bool) Status {
	if reason := o.Eligibility(l, focus, focused); reason != ReasonNone {
		o.abandon()
		o.last = nil
		o.current = nil
		o.status = notReady(reason)
		return o.status
	}

	picks, _ := l.PickSnapshot()
	in := Request{Picks: picks, Player: focus.PlayerIndex(), gen: o.generation()}
	if o.last != nil && o.last.sameInput(in) &&
		(o.status.Phase == PhasePending || o.status.Phase == PhaseReady) {
		return o.status
	}
	o.issue(in)
	return o.status
}

func (o *Orchestrator) generation() uint64 {
	if r, ok := o.engine.(Reloadable); ok {
		return r.Generation()
	}
	return 0
}

func (o *Orchestrator) issue(in Request) {
	o.abandon()
	o.issued++
	req := in
	req.ID = o.issued

	ctx, cancel := context.WithCancel(o.ctx)
	o.pending = &inflight{req: req, cancel: cancel}
	o.last = &req
	o.current = nil
	o.status = Status{Phase: PhasePending, RequestID: req.ID, Player: req.Player}

	o.log.Debug("issuing prediction", zap.Uint64("request_id", req.ID), zap.Int("player", req.Player))
	engine, deliver := o.engine, o.deliver
	go func() {
		res, err := engine.Predict(ctx, req.Picks, req.Player)
		deliver(Resolution{RequestID: req.ID, Result: res, Err: err})
	}()
}

// abandon stops awaiting the pending request. Its computation may still
// finish; the resolution will no longer match and is dropped.
func (o *Orchestrator) abandon() {
	if o.pending == nil {
		return
	}
	o.pending.cancel()
	o.pending = nil
}

// Resolve applies r if it answers the awaited request and reports whether it
// did.
func (o *Orchestrator) Resolve(r Resolution) bool {
	if o.pending == nil || r.RequestID != o.pending.req.ID {
		o.log.Debug("dropping stale prediction", zap.Uint64("request_id", r.RequestID))
		return false
	}
	req := o.pending.req
	o.pending.cancel()
	o.pending = nil

	if r.Err != nil {
		o.log.Warn("prediction failed", zap.Uint64("request_id", req.ID), zap.Error(r.Err))
		o.current = nil
		o.status = Status{
			Phase:     PhaseFailed,
			Message:   fmt.Sprintf("Error: %v", r.Err),
			RequestID: req.ID,
			Player:    req.Player,
		}
		return true
	}

	o.current = &Prediction{Request: req, Result: r.Result}
	o.status = Status{Phase: PhaseReady, RequestID: req.ID, Player: req.Player}
	return true
}

// Close abandons any pending request.
func (o *Orchestrator) Close() { o.abandon() }

func (o *Orchestrator) Status() Status { return o.status }

// Current returns the applied prediction, or nil.
func (o *Orchestrator) Current() *Prediction { return o.current }

// Awaiting returns the id of the request whose result would be applied, or 0.
func (o *Orchestrator) Awaiting() uint64 {
	if o.pending == nil {
		return 0
	}
	return o.pending.req.ID
}

// Issued returns the number of requests issued so far; it is also the id of
// the most recent one.
func (o *Orchestrator) Issued() uint64 { return o.issued }
