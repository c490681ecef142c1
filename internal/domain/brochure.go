package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BrochureStatus represents the lifecycle state of a brochure entity.
type BrochureStatus string

// Possible brochure status values
const (
	// BrochureStatusDraft marks brochures created directly through the CRUD
	// API, without a generation run behind them.
	BrochureStatusDraft     BrochureStatus = "DRAFT"
	BrochureStatusCompleted BrochureStatus = "COMPLETED"
	BrochureStatusFailed    BrochureStatus = "FAILED"
)

// Common validation errors for Brochure
var (
	ErrEmptyBrochureID       = errors.New("brochure ID cannot be empty")
	ErrEmptyBrochureUserID   = errors.New("brochure user ID cannot be empty")
	ErrEmptyBrochureTitle    = errors.New("brochure title cannot be empty")
	ErrInvalidBrochureStatus = errors.New("invalid brochure status")
)

// Brochure is the composite artifact produced by a generation run: marketing
// copy, a set of generated image paths, and an optional rendered thumbnail.
type Brochure struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Title     string         `json:"title"`
	HotelName string         `json:"hotel_name"`
	Location  string         `json:"location"`
	Theme     string         `json:"theme"`
	Content   string         `json:"content"`
	Images    []string       `json:"images"`
	Thumbnail string         `json:"thumbnail,omitempty"`
	Status    BrochureStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewBrochure creates a new Brochure owned by the given user.
// It generates a new UUID for the brochure ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewBrochure(userID uuid.UUID, title string, status BrochureStatus) (*Brochure, error) {
	brochure := &Brochure{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Status:    status,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := brochure.Validate(); err != nil {
		return nil, err
	}

	return brochure, nil
}

// Validate checks if the Brochure has valid data.
// Returns an error if any field fails validation.
func (b *Brochure) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBrochureID
	}

	if b.UserID == uuid.Nil {
		return ErrEmptyBrochureUserID
	}

	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyBrochureTitle
	}

	if !isValidBrochureStatus(b.Status) {
		return ErrInvalidBrochureStatus
	}

	return nil
}

// SetThumbnail records the rendered thumbnail path and bumps the update
// timestamp.
func (b *Brochure) SetThumbnail(path string) {
	b.Thumbnail = path
	b.UpdatedAt = time.Now().UTC()
}

// isValidBrochureStatus checks if the given status is a valid BrochureStatus.
func isValidBrochureStatus(status BrochureStatus) bool {
	switch status {
	case BrochureStatusDraft, BrochureStatusCompleted, BrochureStatusFailed:
		return true
	default:
		return false
	}
}
