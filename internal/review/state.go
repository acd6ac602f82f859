// SPDX-License-Identifier: MIT

package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
)

// event drives the per-article review state machine.
type event string

const (
	eventLightDispatched event = "LIGHT_DISPATCHED"
	eventLightAccepted   event = "LIGHT_ACCEPTED"
	eventEscalate        event = "ESCALATE"
	eventHeavyAccepted   event = "HEAVY_ACCEPTED"
	eventHeavyFallback   event = "HEAVY_FALLBACK"
)

// edge is a (state, event) pair; reviewTable has at most one destination per
// edge, so looking one up doubles as validating that the move is legal.
type edge struct {
	from  model.ReviewState
	event event
}

// reviewTable encodes spec.md §4.4's state machine directly over
// model.ReviewState — there is exactly one review FSM in this system, so it
// gets a concrete table rather than a reusable generic engine:
// NONE → LIGHT_PENDING → (ACCEPTED_LIGHT | HEAVY_PENDING) → (ACCEPTED_HEAVY | FAILED_FALLBACK).
var reviewTable = map[edge]model.ReviewState{
	{model.ReviewStateNone, eventLightDispatched}:       model.ReviewStateLightPending,
	{model.ReviewStateLightPending, eventLightAccepted}: model.ReviewStateAcceptedLight,
	{model.ReviewStateLightPending, eventEscalate}:      model.ReviewStateHeavyPending,
	{model.ReviewStateHeavyPending, eventHeavyAccepted}: model.ReviewStateAcceptedHeavy,
	{model.ReviewStateHeavyPending, eventHeavyFallback}: model.ReviewStateFailedFallback,
}

// ArticleMachine tracks one article's position in the review cascade. It is
// not safe for use by more than one goroutine concurrently driving the same
// article; the mutex only guards State() against a concurrent Fire.
type ArticleMachine struct {
	mu    sync.Mutex
	state model.ReviewState
}

// NewArticleMachine builds the review state machine for a single article,
// starting from its currently persisted ReviewState (NONE for a fresh
// article; re-dispatched articles resume from LIGHT_PENDING/HEAVY_PENDING
// per the at-least-once redelivery guarantee in spec.md §5).
func NewArticleMachine(initial model.ReviewState) (*ArticleMachine, error) {
	if initial == "" {
		initial = model.ReviewStateNone
	}
	return &ArticleMachine{state: initial}, nil
}

// State returns the machine's current state.
func (m *ArticleMachine) State() model.ReviewState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// fire looks up the table entry for the machine's current state and event,
// moving the machine there. There is no Guard/Action hook: the review
// cascade has no side-effecting transitions, only bookkeeping of which
// state an article reached.
func (m *ArticleMachine) fire(_ context.Context, event event) (model.ReviewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	to, ok := reviewTable[edge{m.state, event}]
	if !ok {
		return m.state, fmt.Errorf("review: no transition from state=%s on event=%s", m.state, event)
	}
	m.state = to
	return to, nil
}

// Drive walks m through the events that produced outcome, landing it on
// outcome.ReviewState. Call sites persist the Article row once, after Drive
// returns, so the terminal state and the reviewed fields land in a single
// write (spec.md §4.4: "Terminal states all write exactly one update").
func Drive(ctx context.Context, m *ArticleMachine, outcome Outcome) error {
	if m.State() == model.ReviewStateNone {
		if _, err := m.fire(ctx, eventLightDispatched); err != nil {
			return err
		}
	}
	if outcome.ReviewState == model.ReviewStateAcceptedLight {
		_, err := m.fire(ctx, eventLightAccepted)
		return err
	}

	if m.State() == model.ReviewStateLightPending {
		if _, err := m.fire(ctx, eventEscalate); err != nil {
			return err
		}
	}
	switch outcome.ReviewState {
	case model.ReviewStateAcceptedHeavy:
		_, err := m.fire(ctx, eventHeavyAccepted)
		return err
	default:
		_, err := m.fire(ctx, eventHeavyFallback)
		return err
	}
}
