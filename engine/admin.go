package engine

import (
	"fmt"
	"time"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/events"
)

// SetJoinTimeout changes the join window applied to games created from
// now on. Admin only; existing games keep the deadline they were created
// with.
func (e *Engine) SetJoinTimeout(caller string, d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if d < MinJoinTimeout {
		return fmt.Errorf("join timeout %s below %s: %w", d, MinJoinTimeout, core.ErrBadTimeout)
	}

	if err := e.store.SetJoinTimeout(d); err != nil {
		return fmt.Errorf("store join timeout: %w", err)
	}

	e.emit(events.EventJoinTimeoutChanged, 0, map[string]any{
		"seconds": int64(d / time.Second),
	})
	return nil
}

// SetAdmin hands the admin role to a new identity. Admin only.
func (e *Engine) SetAdmin(caller, next string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if next == "" {
		return core.ErrBadIdentity
	}

	if err := e.store.SetAdmin(next); err != nil {
		return fmt.Errorf("store admin: %w", err)
	}

	e.emit(events.EventAdminChanged, 0, map[string]any{
		"previous": caller,
		"admin":    next,
	})
	return nil
}
