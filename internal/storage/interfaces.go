package storage

import (
	"errors"

	"github.com/emcr30/chicago-web/internal/models"
)

// ErrNotFound is returned when an incident ID is not present in the store.
var ErrNotFound = errors.New("incident not found")

// IncidentStore is the interface any persistence backend must satisfy.
//
// Persist is idempotent: rows whose ID is already present are left
// untouched, so re-persisting an overlapping record set never changes
// existing data.
type IncidentStore interface {
	Persist(incidents []models.Incident) (inserted int, err error)
	List(filter models.StoreFilter) ([]models.Incident, error)
	GetByID(id string) (*models.Incident, error)
	DeleteByID(id string) (bool, error)
	Clear() (int64, error)
	Count() (int64, error)
	Close() error
}
