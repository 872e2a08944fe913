package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nmtun/raune/internal/model"
)

// RestaurantRepository: Restaurant 테이블에 접근합니다.
type RestaurantRepository interface {
	// SeedIfEmpty: 최초 1회만 시드 식당을 복사합니다. 이후에는 DB가 기준
	SeedIfEmpty(ctx context.Context, seed []model.Restaurant) (bool, error)
	List(ctx context.Context) ([]model.Restaurant, error)
	// FindByID: 없으면 nil, nil
	FindByID(ctx context.Context, restaurantID int64) (*model.Restaurant, error)
	// Create: ID가 0이면 max + 1을 할당
	Create(ctx context.Context, restaurant *model.Restaurant) error
	Update(ctx context.Context, restaurant *model.Restaurant) error
	Delete(ctx context.Context, restaurantID int64) error
}

// RestaurantRepoImpl은 RestaurantRepository 인터페이스를 구현합니다.
type RestaurantRepoImpl struct {
	DB *sql.DB
}

func NewRestaurantRepository(db *sql.DB) RestaurantRepository {
	return &RestaurantRepoImpl{DB: db}
}

const restaurantColumns = `restaurant_id, restaurant_name, address, lat, lng, category, rating, reviews, tags, photo, status`

func (r *RestaurantRepoImpl) SeedIfEmpty(ctx context.Context, seed []model.Restaurant) (bool, error) {
	return seedOnce(ctx, r.DB, MetaRestaurantsInitialized, func(tx *sql.Tx) error {
		for i := range seed {
			if err := insertRestaurant(ctx, tx, &seed[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RestaurantRepoImpl) List(ctx context.Context) ([]model.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+restaurantColumns+` FROM Restaurant ORDER BY restaurant_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []model.Restaurant
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, *restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return restaurants, nil
}

func (r *RestaurantRepoImpl) FindByID(ctx context.Context, restaurantID int64) (*model.Restaurant, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM Restaurant WHERE restaurant_id = ?`, restaurantID)
	restaurant, err := scanRestaurant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return restaurant, nil
}

func (r *RestaurantRepoImpl) Create(ctx context.Context, restaurant *model.Restaurant) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if restaurant.ID == 0 {
		var maxID int64
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(restaurant_id), 0) FROM Restaurant`).Scan(&maxID); err != nil {
			return fmt.Errorf("failed to read max restaurant id: %w", err)
		}
		restaurant.ID = maxID + 1
	}
	if err := insertRestaurant(ctx, tx, restaurant); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *RestaurantRepoImpl) Update(ctx context.Context, restaurant *model.Restaurant) error {
	tags, err := encodeStrings(restaurant.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
	UPDATE Restaurant
	SET restaurant_name = ?, address = ?, lat = ?, lng = ?, category = ?,
		rating = ?, reviews = ?, tags = ?, photo = ?, status = ?
	WHERE restaurant_id = ?`,
		restaurant.Name, restaurant.Address, restaurant.Lat, restaurant.Lng, restaurant.Category,
		restaurant.Rating, restaurant.Reviews, tags, restaurant.Photo, restaurant.Status,
		restaurant.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update restaurant %d: %w", restaurant.ID, err)
	}
	return expectAffected(res, "restaurant", restaurant.ID)
}

func (r *RestaurantRepoImpl) Delete(ctx context.Context, restaurantID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM Restaurant WHERE restaurant_id = ?`, restaurantID)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant %d: %w", restaurantID, err)
	}
	return expectAffected(res, "restaurant", restaurantID)
}

func insertRestaurant(ctx context.Context, q queryer, restaurant *model.Restaurant) error {
	if restaurant.Status == "" {
		restaurant.Status = model.StatusActive
	}
	tags, err := encodeStrings(restaurant.Tags)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
	INSERT INTO Restaurant (`+restaurantColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		restaurant.ID, restaurant.Name, restaurant.Address, restaurant.Lat, restaurant.Lng,
		restaurant.Category, restaurant.Rating, restaurant.Reviews, tags, restaurant.Photo, restaurant.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert restaurant %d: %w", restaurant.ID, err)
	}
	return nil
}

// scanner: *sql.Row 와 *sql.Rows 공통
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRestaurant(s scanner) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	var tags string
	err := s.Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.Address,
		&restaurant.Lat,
		&restaurant.Lng,
		&restaurant.Category,
		&restaurant.Rating,
		&restaurant.Reviews,
		&tags,
		&restaurant.Photo,
		&restaurant.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan restaurant: %w", err)
	}
	if restaurant.Tags, err = decodeStrings(tags); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(b), nil
}

func decodeStrings(raw string) ([]string, error) {
	values := []string{}
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode string list: %w", err)
	}
	return values, nil
}

// ErrNoRows: Update/Delete 대상이 없을 때
var ErrNoRows = errors.New("record not found")

func expectAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNoRows)
	}
	return nil
}
