package model

import (
	"time"
)

// 계정 역할
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type Account struct {
	// account_id INTEGER PRIMARY KEY
	ID int64 `db:"account_id" json:"id"`

	// username TEXT NOT NULL
	Username string `db:"username" json:"username"`

	// name TEXT NOT NULL DEFAULT ''
	Name string `db:"name" json:"name"`

	// email TEXT NOT NULL UNIQUE (대소문자 구분 없이 비교)
	Email string `db:"email" json:"email"`

	// password_hash TEXT NOT NULL -- bcrypt, 응답에는 절대 포함하지 않음
	PasswordHash string `db:"password_hash" json:"-"`

	// role TEXT NOT NULL DEFAULT 'customer'
	Role string `db:"role" json:"role"`

	// profile_image TEXT NOT NULL DEFAULT ''
	ProfileImage string `db:"profile_image" json:"profileImage"`

	// created_at TEXT NOT NULL
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
