package service

import (
	"github.com/google/uuid"

	"task-flow-api/internal/domain"
)

// TransitionDecision is the outcome of a transition check. Reachable lists
// the states legally reachable from the requested origin and is populated
// only on rejection.
type TransitionDecision struct {
	Allowed       bool
	NoTransitions bool
	Reachable     []uuid.UUID
}

// ValidateTransition decides whether moving a task from fromStateID to
// toStateID is legal under the given transition set. Legality is a
// direct-edge test: a transition matches when its origin equals the task's
// current state or is the wildcard, and its target equals the requested
// state. Multi-hop paths never imply legality of a shortcut.
//
// A nil fromStateID means the task has no current state and matches only
// wildcard edges. Callers must not invoke this for a no-op assignment
// where the state does not change.
func ValidateTransition(fromStateID *uuid.UUID, toStateID uuid.UUID, transitions []domain.Transition) TransitionDecision {
	if len(transitions) == 0 {
		return TransitionDecision{NoTransitions: true}
	}

	for _, t := range transitions {
		if t.ToStateID != toStateID {
			continue
		}
		if t.IsWildcard() {
			return TransitionDecision{Allowed: true}
		}
		if fromStateID != nil && *t.FromStateID == *fromStateID {
			return TransitionDecision{Allowed: true}
		}
	}

	return TransitionDecision{Reachable: reachableStates(fromStateID, transitions)}
}

// reachableStates collects the distinct targets of every transition whose
// origin matches the current state or is the wildcard
func reachableStates(fromStateID *uuid.UUID, transitions []domain.Transition) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	reachable := make([]uuid.UUID, 0)
	for _, t := range transitions {
		matches := t.IsWildcard() || (fromStateID != nil && *t.FromStateID == *fromStateID)
		if !matches {
			continue
		}
		if _, ok := seen[t.ToStateID]; ok {
			continue
		}
		seen[t.ToStateID] = struct{}{}
		reachable = append(reachable, t.ToStateID)
	}
	return reachable
}
