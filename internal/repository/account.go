package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nmtun/raune/internal/db"
	"github.com/nmtun/raune/internal/model"
)

type AccountRepository interface {
	// 시드 계정을 최초 1회 복사 (비밀번호는 이미 해시된 상태여야 함)
	SeedIfEmpty(ctx context.Context, seed []model.Account) (bool, error)
	// 새로운 계정을 Account 테이블에 추가, ID는 max + 1
	Create(ctx context.Context, account *model.Account) error
	// 계정을 찾음, 없으면 nil, nil
	FindByID(ctx context.Context, accountID int64) (*model.Account, error)
	// 이메일은 대소문자 구분 없이 비교
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error
	UpdateProfile(ctx context.Context, account *model.Account) error
}

type AccountRepoImpl struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &AccountRepoImpl{DB: db}
}

const accountColumns = `account_id, username, name, email, password_hash, role, profile_image, created_at`

func (r *AccountRepoImpl) SeedIfEmpty(ctx context.Context, seed []model.Account) (bool, error) {
	return seedOnce(ctx, r.DB, MetaAccountsInitialized, func(tx *sql.Tx) error {
		for i := range seed {
			if err := insertAccount(ctx, tx, &seed[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AccountRepoImpl) Create(ctx context.Context, account *model.Account) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if account.ID == 0 {
		var maxID int64
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(account_id), 0) FROM Account`).Scan(&maxID); err != nil {
			return fmt.Errorf("failed to read max account id: %w", err)
		}
		account.ID = maxID + 1
	}
	if err := insertAccount(ctx, tx, account); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *AccountRepoImpl) FindByID(ctx context.Context, accountID int64) (*model.Account, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM Account WHERE account_id = ?`, accountID)
	return scanAccountRow(row)
}

func (r *AccountRepoImpl) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM Account WHERE lower(email) = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanAccountRow(row)
}

func (r *AccountRepoImpl) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+accountColumns+` FROM Account ORDER BY account_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepoImpl) UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE Account SET password_hash = ? WHERE account_id = ?`, passwordHash, accountID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectAffected(res, "account", accountID)
}

func (r *AccountRepoImpl) UpdateProfile(ctx context.Context, account *model.Account) error {
	res, err := r.DB.ExecContext(ctx, `
	UPDATE Account
	SET username = ?, name = ?, email = ?, profile_image = ?
	WHERE account_id = ?`,
		account.Username, account.Name, account.Email, account.ProfileImage, account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return expectAffected(res, "account", account.ID)
}

func insertAccount(ctx context.Context, q queryer, account *model.Account) error {
	if account.Role == "" {
		account.Role = model.RoleCustomer
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	_, err := q.ExecContext(ctx, `
	INSERT INTO Account (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.Username, account.Name, account.Email, account.PasswordHash,
		account.Role, account.ProfileImage, db.FormatTime(account.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert account %d: %w", account.ID, err)
	}
	return nil
}

func scanAccountRow(row *sql.Row) (*model.Account, error) {
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func scanAccount(s scanner) (*model.Account, error) {
	var account model.Account
	var createdAt string
	err := s.Scan(
		&account.ID,
		&account.Username,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.ProfileImage,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	if account.CreatedAt, err = db.ParseTime(createdAt); err != nil {
		return nil, err
	}
	return &account, nil
}
