package certificates

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	byCert map[string]Certificate // certID -> record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byCert: make(map[string]Certificate),
	}
}

// Create stores a record, enforcing cert ID uniqueness.
func (r *MemoryRepo) Create(ctx context.Context, cert Certificate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byCert[cert.CertID]; exists {
		return ErrDuplicateID
	}
	r.byCert[cert.CertID] = cert
	return nil
}

// GetByCertID returns the record with the given certificate ID.
func (r *MemoryRepo) GetByCertID(ctx context.Context, certID string) (Certificate, error) {
	if err := ctx.Err(); err != nil {
		return Certificate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cert, ok := r.byCert[certID]
	if !ok {
		return Certificate{}, ErrNotFound
	}
	return cert, nil
}

// ListByUser returns a user's records, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Certificate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	var certs []Certificate
	for _, cert := range r.byCert {
		if cert.UserID == userID {
			certs = append(certs, cert)
		}
	}
	r.mu.RUnlock()

	sort.Slice(certs, func(i, j int) bool {
		return certs[i].CreatedAt.After(certs[j].CreatedAt)
	})

	if offset >= len(certs) {
		return []Certificate{}, nil
	}
	end := len(certs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return certs[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
