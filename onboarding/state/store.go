package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrSessionNotFound = errors.New("onboarding session not found")
	ErrNilSession      = errors.New("onboarding session is nil")
	ErrVersionConflict = errors.New("onboarding session was modified by another writer")
)

// Store is the persistence contract used by the orchestrator. Save and
// CreateIfAbsent are atomic per company. Save only succeeds while the stored
// copy still carries st.Version; it then bumps st.Version by one.
type Store interface {
	Load(ctx context.Context, companyID int) (*Session, error)
	CreateIfAbsent(ctx context.Context, companyID int, now time.Time) (*Session, bool, error)
	Save(ctx context.Context, st *Session) error
	Delete(ctx context.Context, companyID int) error
	Close() error
}

func sessionKey(prefix string, companyID int) (string, error) {
	if companyID <= 0 {
		return "", ErrInvalidCompany
	}
	return prefix + strconv.Itoa(companyID), nil
}

// encodeSession normalizes st and serializes it. Every driver stores the same
// JSON document.
func encodeSession(st *Session) ([]byte, error) {
	if st == nil {
		return nil, ErrNilSession
	}
	if st.Version <= 0 {
		st.Version = 1
	}
	st.EnsureCheckpointsMap()
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	} else {
		st.UpdatedAt = st.UpdatedAt.UTC()
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to save invalid session: %w", err)
	}

	payload, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal onboarding session: %w", err)
	}
	return payload, nil
}

// encodeNextVersion serializes st as it will look after a successful Save and
// returns the version the stored copy must still have. st.Version is left
// alone until the write lands.
func encodeNextVersion(st *Session) ([]byte, int, error) {
	if st == nil {
		return nil, 0, ErrNilSession
	}
	if st.Version <= 0 {
		st.Version = 1
	}
	next := *st
	next.Version = st.Version + 1
	payload, err := encodeSession(&next)
	if err != nil {
		return nil, 0, err
	}
	st.Checkpoints = next.Checkpoints
	st.UpdatedAt = next.UpdatedAt
	return payload, st.Version, nil
}

// storedVersion reads only the version field of a stored document.
func storedVersion(raw []byte) (int, error) {
	var head struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return 0, fmt.Errorf("unmarshal onboarding session: %w", err)
	}
	return head.Version, nil
}

func decodeSession(raw []byte) (*Session, error) {
	var st Session
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("unmarshal onboarding session: %w", err)
	}
	st.EnsureCheckpointsMap()
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("invalid onboarding session loaded from store: %w", err)
	}
	return &st, nil
}
