package optimistic

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/wavelength/sociogram/internal/models"
)

type ActionState = int8

const (
	StateIdle = ActionState(iota)
	StatePending
	StateCommitted
	StateRolledBack
)

type ActionKind = string

const (
	KindReaction ActionKind = "reaction"
	KindComment  ActionKind = "comment"
)

// Target addresses one interactive surface, e.g. the like counter of
// a post or the comment list under it.
type Target struct {
	Kind ActionKind
	ID   string
}

// Mutation is the tentative local change applied the moment the user
// acts, before the backend has answered.
type Mutation struct {
	CounterDelta int64
	FlipFlag     bool
	Placeholder  *models.CommentItem
}

// TargetView is the UI-facing state for one target: the displayed
// counter (never negative), the per-user flag, pending placeholders
// and the transient feedback fields.
type TargetView struct {
	Count        int64                `json:"count"`
	Flag         bool                 `json:"flag"`
	Placeholders []models.CommentItem `json:"placeholders,omitempty"`
	Flash        bool                 `json:"flash"`
	Message      string               `json:"message,omitempty"`
	Redirect     bool                 `json:"redirect,omitempty"`
}

var ErrActionPending = errors.New("an identical action is already in flight")

type entry struct {
	state      ActionState
	mutation   Mutation
	flashUntil time.Time
	resolvedAt time.Time
	message    string
	redirectAt *time.Time
}

type viewState struct {
	count        int64
	flag         bool
	placeholders []models.CommentItem
}

// Controller keeps the four-state machine per (kind, target) pair in
// one addressable map so interactive flows can be driven and tested
// without any rendering layer.
type Controller struct {
	mu      sync.Mutex
	views   map[Target]*viewState
	entries map[Target]*entry

	// Now is replaceable so tests can steer flash and redirect timing.
	Now func() time.Time

	flashDuration time.Duration
	redirectDelay time.Duration
}

const (
	defaultFlashDuration = 300 * time.Millisecond
	defaultRedirectDelay = 1200 * time.Millisecond
)

func NewController() *Controller {
	return &Controller{
		views:         make(map[Target]*viewState),
		entries:       make(map[Target]*entry),
		Now:           time.Now,
		flashDuration: defaultFlashDuration,
		redirectDelay: defaultRedirectDelay,
	}
}

func (c *Controller) view(t Target) *viewState {
	v, ok := c.views[t]
	if !ok {
		v = &viewState{}
		c.views[t] = v
	}
	return v
}

// Seed installs the authoritative server state for a target, e.g.
// after the summary has been fetched.
func (c *Controller) Seed(t Target, count int64, flag bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view(t)
	v.count = count
	v.flag = flag
}

// Begin applies the tentative mutation and moves the target to
// Pending. A target already Pending rejects the action so the user
// cannot double-submit.
func (c *Controller) Begin(t Target, m Mutation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[t]; ok && e.state == StatePending {
		return ErrActionPending
	}

	v := c.view(t)
	v.count = max(v.count+m.CounterDelta, 0)
	if m.FlipFlag {
		v.flag = !v.flag
	}
	if m.Placeholder != nil {
		v.placeholders = append(v.placeholders, *m.Placeholder)
	}

	c.entries[t] = &entry{
		state:      StatePending,
		mutation:   m,
		flashUntil: c.Now().Add(c.flashDuration),
	}
	return nil
}

// Commit marks the in-flight action as confirmed. Authoritative values
// arrive separately via Reconcile once re-fetched.
func (c *Controller) Commit(t Target) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[t]
	if !ok || e.state != StatePending {
		return errors.New("no pending action for target")
	}
	e.state = StateCommitted
	e.resolvedAt = c.Now()
	return nil
}

// Reconcile overwrites the local counter and flag with the
// server-confirmed values.
func (c *Controller) Reconcile(t Target, count int64, flag bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view(t)
	v.count = max(count, 0)
	v.flag = flag
}

// ResolvePlaceholder swaps a pending placeholder for the confirmed
// record once the backend has assigned it an identity.
func (c *Controller) ResolvePlaceholder(t Target, placeholderId string, confirmed models.CommentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view(t)
	v.placeholders = lo.Map(v.placeholders, func(item models.CommentItem, _ int) models.CommentItem {
		if item.ID == placeholderId {
			return confirmed
		}
		return item
	})
}

// Rollback reverts the tentative mutation exactly and records the
// user-facing failure. An unauthenticated failure also schedules the
// login redirect after the fixed delay.
func (c *Controller) Rollback(t Target, message string, unauthenticated bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[t]
	if !ok || e.state != StatePending {
		return errors.New("no pending action for target")
	}

	v := c.view(t)
	v.count = max(v.count-e.mutation.CounterDelta, 0)
	if e.mutation.FlipFlag {
		v.flag = !v.flag
	}
	if e.mutation.Placeholder != nil {
		v.placeholders = lo.Filter(v.placeholders, func(item models.CommentItem, _ int) bool {
			return item.ID != e.mutation.Placeholder.ID
		})
	}

	e.state = StateRolledBack
	e.resolvedAt = c.Now()
	e.message = message
	if unauthenticated {
		e.redirectAt = lo.ToPtr(c.Now().Add(c.redirectDelay))
	}
	return nil
}

func (c *Controller) State(t Target) ActionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[t]; ok {
		return e.state
	}
	return StateIdle
}

// View renders the current UI state for a target. The flash indicator
// clears itself after the fixed duration regardless of whether the
// request has resolved.
func (c *Controller) View(t Target) TargetView {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.Now()
	v := c.view(t)
	out := TargetView{
		Count:        v.count,
		Flag:         v.flag,
		Placeholders: v.placeholders,
	}
	if e, ok := c.entries[t]; ok {
		out.Flash = now.Before(e.flashUntil)
		out.Message = e.message
		out.Redirect = e.redirectAt != nil && !now.Before(*e.redirectAt)
	}
	return out
}

// NewPlaceholder mints a locally-identified comment shown until the
// backend confirms the submission.
func NewPlaceholder(userId *string, content string) models.CommentItem {
	now := time.Now()
	return models.CommentItem{
		ID:        "pending-" + uuid.NewString(),
		UserID:    userId,
		Content:   content,
		CreatedAt: &now,
		Pending:   true,
	}
}

// Sweep drops resolved entries older than the given age and returns
// how many were removed. Pending entries are never swept.
func (c *Controller) Sweep(olderThan time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := c.Now().Add(-olderThan)
	var removed int
	for t, e := range c.entries {
		if e.state == StatePending {
			continue
		}
		if e.resolvedAt.Before(deadline) {
			delete(c.entries, t)
			removed++
		}
	}
	return removed
}
