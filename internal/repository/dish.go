package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nmtun/raune/internal/model"
)

// DishRepository: Dish 테이블 (식당 메뉴)
type DishRepository interface {
	SeedIfEmpty(ctx context.Context, seed []model.Dish) (bool, error)
	List(ctx context.Context) ([]model.Dish, error)
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.Dish, error)
	FindByID(ctx context.Context, dishID int64) (*model.Dish, error)
	CountByRestaurant(ctx context.Context, restaurantID int64) (int, error)
	Create(ctx context.Context, dish *model.Dish) error
	Update(ctx context.Context, dish *model.Dish) error
	Delete(ctx context.Context, dishID int64) error
}

type DishRepoImpl struct {
	DB *sql.DB
}

func NewDishRepository(db *sql.DB) DishRepository {
	return &DishRepoImpl{DB: db}
}

const dishColumns = `dish_id, restaurant_id, name_vi, name_ja, category, price, rating, reviews, photo, description_vi, description_ja`

func (r *DishRepoImpl) SeedIfEmpty(ctx context.Context, seed []model.Dish) (bool, error) {
	return seedOnce(ctx, r.DB, MetaDishesInitialized, func(tx *sql.Tx) error {
		for i := range seed {
			if err := insertDish(ctx, tx, &seed[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DishRepoImpl) List(ctx context.Context) ([]model.Dish, error) {
	return r.query(ctx, `SELECT `+dishColumns+` FROM Dish ORDER BY dish_id ASC`)
}

func (r *DishRepoImpl) ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.Dish, error) {
	return r.query(ctx, `SELECT `+dishColumns+` FROM Dish WHERE restaurant_id = ? ORDER BY dish_id ASC`, restaurantID)
}

func (r *DishRepoImpl) FindByID(ctx context.Context, dishID int64) (*model.Dish, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+dishColumns+` FROM Dish WHERE dish_id = ?`, dishID)
	dish, err := scanDish(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dish, nil
}

func (r *DishRepoImpl) CountByRestaurant(ctx context.Context, restaurantID int64) (int, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM Dish WHERE restaurant_id = ?`, restaurantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count dishes: %w", err)
	}
	return count, nil
}

func (r *DishRepoImpl) Create(ctx context.Context, dish *model.Dish) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if dish.ID == 0 {
		var maxID int64
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(dish_id), 0) FROM Dish`).Scan(&maxID); err != nil {
			return fmt.Errorf("failed to read max dish id: %w", err)
		}
		dish.ID = maxID + 1
	}
	if err := insertDish(ctx, tx, dish); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *DishRepoImpl) Update(ctx context.Context, dish *model.Dish) error {
	res, err := r.DB.ExecContext(ctx, `
	UPDATE Dish
	SET restaurant_id = ?, name_vi = ?, name_ja = ?, category = ?, price = ?,
		rating = ?, reviews = ?, photo = ?, description_vi = ?, description_ja = ?
	WHERE dish_id = ?`,
		dish.RestaurantID, dish.Name.Vi, dish.Name.Ja, dish.Category, dish.Price,
		dish.Rating, dish.Reviews, dish.Photo, dish.Description.Vi, dish.Description.Ja,
		dish.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dish %d: %w", dish.ID, err)
	}
	return expectAffected(res, "dish", dish.ID)
}

func (r *DishRepoImpl) Delete(ctx context.Context, dishID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM Dish WHERE dish_id = ?`, dishID)
	if err != nil {
		return fmt.Errorf("failed to delete dish %d: %w", dishID, err)
	}
	return expectAffected(res, "dish", dishID)
}

func (r *DishRepoImpl) query(ctx context.Context, query string, args ...interface{}) ([]model.Dish, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer rows.Close()

	var dishes []model.Dish
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, *dish)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return dishes, nil
}

func insertDish(ctx context.Context, q queryer, dish *model.Dish) error {
	_, err := q.ExecContext(ctx, `
	INSERT INTO Dish (`+dishColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dish.ID, dish.RestaurantID, dish.Name.Vi, dish.Name.Ja, dish.Category, dish.Price,
		dish.Rating, dish.Reviews, dish.Photo, dish.Description.Vi, dish.Description.Ja,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dish %d: %w", dish.ID, err)
	}
	return nil
}

func scanDish(s scanner) (*model.Dish, error) {
	var dish model.Dish
	err := s.Scan(
		&dish.ID,
		&dish.RestaurantID,
		&dish.Name.Vi,
		&dish.Name.Ja,
		&dish.Category,
		&dish.Price,
		&dish.Rating,
		&dish.Reviews,
		&dish.Photo,
		&dish.Description.Vi,
		&dish.Description.Ja,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan dish: %w", err)
	}
	return &dish, nil
}
