package repository

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type auditLogMemoryRepository struct {
	mu     sync.RWMutex
	logs   []model.AuditLog
	nextID int64
}

func NewAuditLogMemoryRepository() repo.AuditLogRepository {
	return &auditLogMemoryRepository{nextID: 1}
}

func (r *auditLogMemoryRepository) Create(ctx context.Context, log model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.ID = r.nextID
	r.nextID++
	r.logs = append(r.logs, log)
	return nil
}

func (r *auditLogMemoryRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// limit/offset
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	logs := []model.AuditLog{}
	skipped := 0
	//新しい順
	for i := len(r.logs) - 1; i >= 0 && len(logs) < limit; i-- {
		l := r.logs[i]
		if !matchAuditLog(l, filter) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func matchAuditLog(l model.AuditLog, f repo.AuditLogFilter) bool {
	if f.Actor != nil && l.Actor != *f.Actor {
		return false
	}
	if f.Action != nil && l.Action != *f.Action {
		return false
	}
	if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
		return false
	}
	if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
		return false
	}
	if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}
