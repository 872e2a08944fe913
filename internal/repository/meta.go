package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// 초기화 플래그 키
const (
	MetaRestaurantsInitialized    = "restaurantsInitialized"
	MetaDishesInitialized         = "dishesInitialized"
	MetaAccountsInitialized       = "accountsInitialized"
	MetaDeletedReviewsInitialized = "deletedReviewsInitialized"
)

// MetaRepository: 시드 데이터를 한 번만 복사하기 위한 플래그 저장소
type MetaRepository interface {
	IsInitialized(ctx context.Context, key string) (bool, error)
	MarkInitialized(ctx context.Context, key string) error
}

type MetaRepoImpl struct {
	DB *sql.DB
}

func NewMetaRepository(db *sql.DB) MetaRepository {
	return &MetaRepoImpl{DB: db}
}

func (r *MetaRepoImpl) IsInitialized(ctx context.Context, key string) (bool, error) {
	return isInitialized(ctx, r.DB, key)
}

func (r *MetaRepoImpl) MarkInitialized(ctx context.Context, key string) error {
	return markInitialized(ctx, r.DB, key)
}

// queryer: *sql.DB 와 *sql.Tx 공통
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func isInitialized(ctx context.Context, q queryer, key string) (bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT meta_value FROM Storage_Meta WHERE meta_key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read storage meta %s: %w", key, err)
	}
	return value == "true", nil
}

func markInitialized(ctx context.Context, q queryer, key string) error {
	_, err := q.ExecContext(ctx, `
	INSERT INTO Storage_Meta (meta_key, meta_value) VALUES (?, 'true')
	ON CONFLICT(meta_key) DO UPDATE SET meta_value = 'true', updated_at = strftime('%Y-%m-%d %H:%M:%S', 'now')`, key)
	if err != nil {
		return fmt.Errorf("failed to mark %s initialized: %w", key, err)
	}
	return nil
}

// seedOnce: 플래그가 없을 때만 fn을 트랜잭션 안에서 실행하고 플래그를 남긴다.
func seedOnce(ctx context.Context, db *sql.DB, key string, fn func(tx *sql.Tx) error) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	done, err := isInitialized(ctx, tx, key)
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}
	if err := fn(tx); err != nil {
		return false, err
	}
	if err := markInitialized(ctx, tx, key); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed %s: %w", key, err)
	}
	return true, nil
}
