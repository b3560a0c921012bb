package games

import (
	"strings"
	"time"
)

// Action names an operation checked against the lifecycle table.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionRespond  Action = "respond"
	ActionUnvote   Action = "unvote"
)

// allowedFrom maps each action to the stored statuses it may start from.
// COMPLETED has no outgoing transitions.
var allowedFrom = map[Action][]Status{
	ActionConfirm:  {StatusPending, StatusCancelled},
	ActionCancel:   {StatusPending, StatusConfirmed},
	ActionComplete: {StatusPending, StatusConfirmed, StatusCancelled},
	ActionUpdate:   {StatusPending, StatusConfirmed, StatusCancelled},
	ActionDelete:   {StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted},
	ActionRespond:  {StatusPending},
	ActionUnvote:   {StatusPending},
}

// Policy carries the lifecycle knobs that are product decisions rather than invariants.
type Policy struct {
	// AllowCompletedEdits lets creators correct fields of a COMPLETED game.
	AllowCompletedEdits bool
}

// CheckAction returns an InvalidState error when action is not legal from the game's stored status.
func (p Policy) CheckAction(g Game, action Action) error {
	if action == ActionUpdate && g.Status == StatusCompleted && p.AllowCompletedEdits {
		return nil
	}
	for _, s := range allowedFrom[action] {
		if s == g.Status {
			return nil
		}
	}
	return newError(KindInvalidState, string(action), g.ID, "cannot %s a game in status %s", action, g.Status)
}

// Authorize returns Forbidden unless actor created the game.
func Authorize(g Game, actor string, action Action) error {
	if g.IsCreator(actor) {
		return nil
	}
	return newError(KindForbidden, string(action), g.ID, "only the creator may %s this game", action)
}

// Confirm moves the game to CONFIRMED. A blank note keeps the existing notes.
func (p Policy) Confirm(g Game, actor, note string, now time.Time) (Game, error) {
	if err := p.guard(g, actor, ActionConfirm); err != nil {
		return g, err
	}
	note, err := normalizeNote(string(ActionConfirm), note)
	if err != nil {
		return g, err
	}
	return applyStatus(g, StatusConfirmed, note, now), nil
}

// Cancel moves the game to CANCELLED. A blank note keeps the existing notes.
func (p Policy) Cancel(g Game, actor, note string, now time.Time) (Game, error) {
	if err := p.guard(g, actor, ActionCancel); err != nil {
		return g, err
	}
	note, err := normalizeNote(string(ActionCancel), note)
	if err != nil {
		return g, err
	}
	return applyStatus(g, StatusCancelled, note, now), nil
}

// Complete moves the game to COMPLETED and records the score and result.
func (p Policy) Complete(g Game, actor, score string, result Result, now time.Time) (Game, error) {
	if err := p.guard(g, actor, ActionComplete); err != nil {
		return g, err
	}
	score, err := NormalizeScore(score)
	if err != nil {
		return g, err
	}
	if result != "" && !result.Valid() {
		return g, Validation(string(ActionComplete), "unknown result %q", result)
	}
	out := applyStatus(g, StatusCompleted, "", now)
	out.Score = score
	out.Result = result
	return out, nil
}

// Update applies a partial edit. Status is never changed.
func (p Policy) Update(g Game, actor string, patch Patch, now time.Time) (Game, error) {
	if err := p.guard(g, actor, ActionUpdate); err != nil {
		return g, err
	}
	if patch.Empty() {
		return g, Validation(string(ActionUpdate), "no fields to update")
	}
	out := patch.apply(g)
	if err := validateFields(string(ActionUpdate), out); err != nil {
		return g, err
	}
	out.UpdatedAt = now.UTC()
	return out, nil
}

// CanDelete checks that actor may delete the game.
func (p Policy) CanDelete(g Game, actor string) error {
	return p.guard(g, actor, ActionDelete)
}

// CanVote checks that the game accepts votes. Any member may vote.
func (p Policy) CanVote(g Game, action Action) error {
	return p.CheckAction(g, action)
}

// guard checks permission before state so non-creators always see Forbidden.
func (p Policy) guard(g Game, actor string, action Action) error {
	if err := Authorize(g, actor, action); err != nil {
		return err
	}
	return p.CheckAction(g, action)
}

func applyStatus(g Game, status Status, note string, now time.Time) Game {
	g.Status = status
	if note != "" {
		g.Notes = note
	}
	g.UpdatedAt = now.UTC()
	return g
}

func normalizeNote(op, note string) (string, error) {
	note = strings.TrimSpace(note)
	if len(note) > maxNotesLen {
		return "", Validation(op, "notes exceed %d characters", maxNotesLen)
	}
	return note, nil
}
