package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/aibrochure/brochure-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh
// endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateBrochureRequest defines the payload for the brochure generation
// endpoint. Layout is optional; the pipeline falls back to its default.
type GenerateBrochureRequest struct {
	Name   string `json:"name"   validate:"required"`
	Prompt string `json:"prompt" validate:"required"`
	Layout string `json:"layout" validate:"omitempty,oneof=full_bleed split_panel text_overlay"`
}

// UpdateBrochureRequest defines the payload for brochure updates. Blank
// fields are left unchanged.
type UpdateBrochureRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// BrochureResponse is the API representation of a brochure.
type BrochureResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	HotelName string    `json:"hotel_name"`
	Location  string    `json:"location"`
	Theme     string    `json:"theme"`
	Content   string    `json:"content"`
	Images    []string  `json:"images"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BrochureListResponse wraps one page of brochures.
type BrochureListResponse struct {
	Brochures []BrochureResponse `json:"brochures"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}

// toBrochureResponse converts a domain brochure to its API representation.
func toBrochureResponse(b *domain.Brochure) BrochureResponse {
	return BrochureResponse{
		ID:        b.ID,
		Title:     b.Title,
		HotelName: b.HotelName,
		Location:  b.Location,
		Theme:     b.Theme,
		Content:   b.Content,
		Images:    b.Images,
		Thumbnail: b.Thumbnail,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
