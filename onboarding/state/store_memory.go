package state

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps serialized sessions in a map. Callers always get a fresh
// copy, so mutations are invisible until Save.
type MemoryStore struct {
	mu   sync.Mutex
	data map[int][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[int][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, companyID int) (*Session, error) {
	if companyID <= 0 {
		return nil, ErrInvalidCompany
	}
	s.mu.Lock()
	raw, ok := s.data[companyID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return decodeSession(raw)
}

func (s *MemoryStore) CreateIfAbsent(_ context.Context, companyID int, now time.Time) (*Session, bool, error) {
	if companyID <= 0 {
		return nil, false, ErrInvalidCompany
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, ok := s.data[companyID]; ok {
		st, err := decodeSession(raw)
		return st, false, err
	}

	fresh := NewSession(companyID, now)
	payload, err := encodeSession(fresh)
	if err != nil {
		return nil, false, err
	}
	s.data[companyID] = payload
	return fresh, true, nil
}

func (s *MemoryStore) Save(_ context.Context, st *Session) error {
	payload, expected, err := encodeNextVersion(st)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, ok := s.data[st.CompanyID]; ok {
		current, err := storedVersion(raw)
		if err != nil {
			return err
		}
		if current != expected {
			return fmt.Errorf("%w: company %d at version %d, have %d", ErrVersionConflict, st.CompanyID, current, expected)
		}
	}
	s.data[st.CompanyID] = payload
	st.Version = expected + 1
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, companyID int) error {
	s.mu.Lock()
	delete(s.data, companyID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
