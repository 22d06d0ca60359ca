package ports

import (
	"context"

	"github.com/google/uuid"

	"itinerary-service/internal/domain"
)

// ItineraryRepository is the persistence collaborator for assembled
// itineraries. An itinerary with a nil ID is always an insert (the
// repository assigns ID and CreatedAt); presence of an ID implies update.
type ItineraryRepository interface {
	// Save persists the itinerary and returns it with ID, CreatedAt and
	// UpdatedAt populated.
	Save(ctx context.Context, it *domain.Itinerary) (*domain.Itinerary, error)

	// GetByID returns the full itinerary including its ordered segments.
	// Returns domain.ErrNotFound when no such itinerary exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error)

	// ListByUser returns itinerary summaries for a user, most recent first.
	// Segments are not loaded; use GetByID for the full aggregate.
	ListByUser(ctx context.Context, userID string) ([]*domain.Itinerary, error)

	// Delete removes an itinerary and its segments.
	// Returns domain.ErrNotFound when no such itinerary exists.
	Delete(ctx context.Context, id uuid.UUID) error
}
