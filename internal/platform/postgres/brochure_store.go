package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aibrochure/brochure-api/internal/domain"
	"github.com/aibrochure/brochure-api/internal/platform/logger"
	"github.com/aibrochure/brochure-api/internal/store"
)

const defaultBrochurePageSize = 20

// PostgresBrochureStore implements the store.BrochureStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBrochureStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBrochureStore creates a new PostgreSQL implementation of the
// BrochureStore interface. The database handle is initialized and managed by
// the caller.
func NewPostgresBrochureStore(db store.DBTX, logger *slog.Logger) *PostgresBrochureStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBrochureStore{
		db:     db,
		logger: logger.With(slog.String("component", "brochure_store")),
	}
}

// Ensure PostgresBrochureStore implements store.BrochureStore interface
var _ store.BrochureStore = (*PostgresBrochureStore)(nil)

// Create implements store.BrochureStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresBrochureStore) Create(ctx context.Context, brochure *domain.Brochure) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := brochure.Validate(); err != nil {
		log.Warn("brochure validation failed during create",
			slog.String("error", err.Error()),
			slog.String("brochure_id", brochure.ID.String()))
		return err
	}

	images, err := json.Marshal(brochure.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		INSERT INTO brochures
			(id, user_id, title, hotel_name, location, theme, content, images, thumbnail, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		brochure.ID,
		brochure.UserID,
		brochure.Title,
		brochure.HotelName,
		brochure.Location,
		brochure.Theme,
		brochure.Content,
		images,
		brochure.Thumbnail,
		brochure.Status,
		brochure.CreatedAt,
		brochure.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create brochure",
			slog.String("error", err.Error()),
			slog.String("brochure_id", brochure.ID.String()),
			slog.String("user_id", brochure.UserID.String()))
		return MapError(err)
	}

	log.Info("brochure created successfully",
		slog.String("brochure_id", brochure.ID.String()),
		slog.String("user_id", brochure.UserID.String()))
	return nil
}

// GetByID implements store.BrochureStore.GetByID
// Returns store.ErrBrochureNotFound if the brochure does not exist.
func (s *PostgresBrochureStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Brochure, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, hotel_name, location, theme, content, images, thumbnail, status, created_at, updated_at
		FROM brochures
		WHERE id = $1
	`
	brochure, err := scanBrochure(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrBrochureNotFound
		}
		log.Error("failed to get brochure by ID",
			slog.String("error", err.Error()),
			slog.String("brochure_id", id.String()))
		return nil, MapError(err)
	}

	return brochure, nil
}

// ListByUser implements store.BrochureStore.ListByUser
func (s *PostgresBrochureStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	params store.BrochureListParams,
) ([]*domain.Brochure, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = defaultBrochurePageSize
	}

	search := "%"
	if params.TitleSearch != "" {
		search = "%" + params.TitleSearch + "%"
	}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM brochures
		WHERE user_id = $1 AND title ILIKE $2
	`
	if err := s.db.QueryRowContext(ctx, countQuery, userID, search).Scan(&total); err != nil {
		log.Error("failed to count brochures",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}

	query := `
		SELECT id, user_id, title, hotel_name, location, theme, content, images, thumbnail, status, created_at, updated_at
		FROM brochures
		WHERE user_id = $1 AND title ILIKE $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := s.db.QueryContext(ctx, query, userID, search, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Error("failed to list brochures",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var brochures []*domain.Brochure
	for rows.Next() {
		brochure, err := scanBrochure(rows)
		if err != nil {
			return nil, 0, MapError(err)
		}
		brochures = append(brochures, brochure)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	return brochures, total, nil
}

// Update implements store.BrochureStore.Update
// Returns store.ErrBrochureNotFound if the brochure does not exist.
func (s *PostgresBrochureStore) Update(ctx context.Context, brochure *domain.Brochure) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := brochure.Validate(); err != nil {
		return err
	}

	images, err := json.Marshal(brochure.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		UPDATE brochures
		SET title = $2, hotel_name = $3, location = $4, theme = $5, content = $6,
			images = $7, thumbnail = $8, status = $9, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		brochure.ID,
		brochure.Title,
		brochure.HotelName,
		brochure.Location,
		brochure.Theme,
		brochure.Content,
		images,
		brochure.Thumbnail,
		brochure.Status,
	)
	if err != nil {
		log.Error("failed to update brochure",
			slog.String("error", err.Error()),
			slog.String("brochure_id", brochure.ID.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrBrochureNotFound
	}

	return nil
}

// Delete implements store.BrochureStore.Delete
// Returns store.ErrBrochureNotFound if the brochure does not exist.
func (s *PostgresBrochureStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM brochures WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete brochure",
			slog.String("error", err.Error()),
			slog.String("brochure_id", id.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrBrochureNotFound
	}

	log.Info("brochure deleted",
		slog.String("brochure_id", id.String()))
	return nil
}

// WithTx implements store.BrochureStore.WithTx
func (s *PostgresBrochureStore) WithTx(tx *sql.Tx) store.BrochureStore {
	return &PostgresBrochureStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBrochure(row rowScanner) (*domain.Brochure, error) {
	var brochure domain.Brochure
	var images []byte
	var thumbnail sql.NullString

	err := row.Scan(
		&brochure.ID,
		&brochure.UserID,
		&brochure.Title,
		&brochure.HotelName,
		&brochure.Location,
		&brochure.Theme,
		&brochure.Content,
		&images,
		&thumbnail,
		&brochure.Status,
		&brochure.CreatedAt,
		&brochure.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(images) > 0 {
		if err := json.Unmarshal(images, &brochure.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images: %w", err)
		}
	}
	if thumbnail.Valid {
		brochure.Thumbnail = thumbnail.String
	}

	return &brochure, nil
}
