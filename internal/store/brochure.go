package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/aibrochure/brochure-api/internal/domain"
)

// BrochureListParams controls pagination and filtering of brochure listings.
type BrochureListParams struct {
	// Page is 1-based. Values below 1 are treated as 1.
	Page int

	// PageSize caps the number of brochures per page.
	PageSize int

	// TitleSearch, when non-empty, restricts the listing to brochures whose
	// title contains the term, case-insensitively.
	TitleSearch string
}

// BrochureStore defines the interface for brochure data persistence.
type BrochureStore interface {
	// Create saves a new brochure. Returns ErrInvalidEntity when the owning
	// user does not exist, or validation errors from the domain Brochure.
	Create(ctx context.Context, brochure *domain.Brochure) error

	// GetByID retrieves a brochure by its unique ID.
	// Returns ErrBrochureNotFound if the brochure does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Brochure, error)

	// ListByUser returns one page of the user's brochures, newest first,
	// along with the total count across all pages.
	ListByUser(ctx context.Context, userID uuid.UUID, params BrochureListParams) ([]*domain.Brochure, int, error)

	// Update modifies an existing brochure.
	// Returns ErrBrochureNotFound if the brochure does not exist.
	Update(ctx context.Context, brochure *domain.Brochure) error

	// Delete removes a brochure by its ID.
	// Returns ErrBrochureNotFound if the brochure does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new BrochureStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) BrochureStore
}
