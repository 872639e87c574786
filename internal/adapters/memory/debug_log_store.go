package memory

import (
	"context"

	"land-scanner-service/internal/core/domain"
)

type DebugLogStore struct {
	db *db
}

func (s *DebugLogStore) SaveDebugLog(_ context.Context, record domain.DebugLogRecord) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.debugRecords = append(s.db.debugRecords, record)
	return nil
}
