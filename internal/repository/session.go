package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nmtun/raune/internal/db"
	"github.com/nmtun/raune/internal/model"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	// 없으면 nil, nil (만료 여부는 호출 측에서 판단)
	Find(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
	// now 이전에 만료된 세션 정리, 삭제된 개수 반환
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type SessionRepoImpl struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &SessionRepoImpl{DB: db}
}

func (r *SessionRepoImpl) Create(ctx context.Context, session *model.Session) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO Session (token, account_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		session.Token, session.AccountID, db.FormatTime(session.CreatedAt), db.FormatTime(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *SessionRepoImpl) Find(ctx context.Context, token string) (*model.Session, error) {
	session := &model.Session{Token: token}
	var createdAt, expiresAt string
	err := r.DB.QueryRowContext(ctx,
		`SELECT account_id, created_at, expires_at FROM Session WHERE token = ?`, token,
	).Scan(&session.AccountID, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session.CreatedAt, err = db.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if session.ExpiresAt, err = db.ParseTime(expiresAt); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepoImpl) Delete(ctx context.Context, token string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM Session WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepoImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	// TEXT 포맷이 사전순 정렬과 시간순 정렬이 같으므로 문자열 비교로 충분
	res, err := r.DB.ExecContext(ctx, `DELETE FROM Session WHERE expires_at <= ?`, db.FormatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
