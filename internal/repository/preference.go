package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nmtun/raune/internal/db"
	"github.com/nmtun/raune/internal/model"
)

// PreferenceRepository: 사용자별 선호 음식 태그
type PreferenceRepository interface {
	// 없으면 nil, nil
	Get(ctx context.Context, userID int64) (*model.Preferences, error)
	Save(ctx context.Context, prefs *model.Preferences) error
	Clear(ctx context.Context, userID int64) error
}

type PreferenceRepoImpl struct {
	DB *sql.DB
}

func NewPreferenceRepository(db *sql.DB) PreferenceRepository {
	return &PreferenceRepoImpl{DB: db}
}

func (r *PreferenceRepoImpl) Get(ctx context.Context, userID int64) (*model.Preferences, error) {
	var tags, updatedAt string
	err := r.DB.QueryRowContext(ctx,
		`SELECT food_preferences, updated_at FROM User_Preference WHERE user_id = ?`, userID,
	).Scan(&tags, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}

	prefs := &model.Preferences{UserID: userID}
	if prefs.FoodPreferences, err = decodeStrings(tags); err != nil {
		return nil, err
	}
	if prefs.Timestamp, err = db.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (r *PreferenceRepoImpl) Save(ctx context.Context, prefs *model.Preferences) error {
	tags, err := encodeStrings(prefs.FoodPreferences)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
	INSERT INTO User_Preference (user_id, food_preferences, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET food_preferences = excluded.food_preferences, updated_at = excluded.updated_at`,
		prefs.UserID, tags, db.FormatTime(prefs.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (r *PreferenceRepoImpl) Clear(ctx context.Context, userID int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM User_Preference WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}
