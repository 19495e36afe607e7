// internal/store/restaurants.go

// Package store persists restaurant records and conversation logs in
// Postgres and caches process responses in Redis.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/models"
)

// RestaurantStore reads restaurant profiles. Hours, specials and menu
// items live in JSONB columns.
type RestaurantStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRestaurantStore(db *sql.DB, log logger.Logger) *RestaurantStore {
	return &RestaurantStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "restaurant-store"}),
	}
}

// GetRestaurant loads one restaurant by ID.
func (s *RestaurantStore) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var (
		restaurant   models.Restaurant
		website      sql.NullString
		contactEmail sql.NullString
		hoursJSON    []byte
		specialsJSON []byte
		menuJSON     []byte
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, cuisine, hours, address, phone, website, contact_email,
		       specials, menu_items, created_at, updated_at
		FROM restaurants
		WHERE id = $1`, id).Scan(
		&restaurant.ID, &restaurant.Name, &restaurant.Cuisine,
		&hoursJSON, &restaurant.Address, &restaurant.Phone,
		&website, &contactEmail,
		&specialsJSON, &menuJSON,
		&createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewRestaurantNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get restaurant", err)
	}

	restaurant.Website = website.String
	restaurant.ContactEmail = contactEmail.String
	restaurant.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	restaurant.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)

	if len(hoursJSON) > 0 {
		if err := json.Unmarshal(hoursJSON, &restaurant.Hours); err != nil {
			return nil, errors.NewQueryExecutionFailedError("get restaurant", fmt.Errorf("decode hours: %w", err))
		}
	}
	if len(specialsJSON) > 0 {
		if err := json.Unmarshal(specialsJSON, &restaurant.Specials); err != nil {
			return nil, errors.NewQueryExecutionFailedError("get restaurant", fmt.Errorf("decode specials: %w", err))
		}
	}
	if len(menuJSON) > 0 {
		if err := json.Unmarshal(menuJSON, &restaurant.MenuItems); err != nil {
			return nil, errors.NewQueryExecutionFailedError("get restaurant", fmt.Errorf("decode menu items: %w", err))
		}
	}

	return &restaurant, nil
}
