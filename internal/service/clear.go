package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"checkinboard/internal/storage"
)

var (
	// ErrNotArmed is returned when confirming a clear that was never armed
	// or whose arming has expired or been cancelled.
	ErrNotArmed = errors.New("bulk clear is not armed")

	// ErrWrongClearToken is returned when the confirmation token does not
	// match the one issued by Arm.
	ErrWrongClearToken = errors.New("confirmation token does not match")
)

// armedClear is the transient state between arming and confirming.
type armedClear struct {
	token   string
	expires time.Time
}

// ArmClear starts the two-step bulk clear and returns the token the caller
// must echo back to confirm. Arming again replaces any previous arm.
func (s *BoardService) ArmClear() (token string, expiresAt time.Time, err error) {
	token, err = gonanoid.New()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate clear token: %w", err)
	}

	expiresAt = time.Now().Add(s.clearTTL)

	s.clearMu.Lock()
	s.clear = &armedClear{token: token, expires: expiresAt}
	s.clearMu.Unlock()

	s.log.Info("bulk clear armed", "expires_at", expiresAt)
	return token, expiresAt, nil
}

// CancelClear disarms a pending bulk clear. Safe to call when not armed.
func (s *BoardService) CancelClear() {
	s.clearMu.Lock()
	armed := s.clear != nil
	s.clear = nil
	s.clearMu.Unlock()

	if armed {
		s.log.Info("bulk clear cancelled")
	}
}

// ClearArmed reports whether a confirmable bulk clear is pending.
func (s *BoardService) ClearArmed() bool {
	s.clearMu.Lock()
	defer s.clearMu.Unlock()
	return s.clear != nil && time.Now().Before(s.clear.expires)
}

// ConfirmClear deletes every group in one atomic batch. It requires a prior
// Arm and the matching token: a direct confirm deletes nothing. The arm is
// consumed whether or not the batch succeeds.
func (s *BoardService) ConfirmClear(ctx context.Context, token string) error {
	s.clearMu.Lock()
	armed := s.clear
	s.clear = nil
	s.clearMu.Unlock()

	if armed == nil || time.Now().After(armed.expires) {
		return ErrNotArmed
	}
	if armed.token != token {
		return ErrWrongClearToken
	}

	docs, err := s.store.List(ctx, storage.Groups)
	if err != nil {
		return fmt.Errorf("list groups for clear: %w", err)
	}
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}

	if err := s.store.DeleteAllInBatch(ctx, storage.Groups, ids); err != nil {
		s.recordFailure(storage.Groups, "clear", err)
		return fmt.Errorf("clear groups: %w", err)
	}
	s.recordWrite(ctx, storage.Groups, "clear")
	s.log.Info("board cleared", "groups_deleted", len(ids))
	return nil
}
