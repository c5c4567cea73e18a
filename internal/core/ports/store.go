package ports

import "go.trai.ch/forge/internal/core/domain"

// SignatureStore persists signatures between build invocations.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SignatureStore interface {
	// Get retrieves the record for key.
	// Returns nil, nil if not found.
	Get(key string) (*domain.SignatureRecord, error)

	// Put stores the record.
	Put(rec domain.SignatureRecord) error
}
