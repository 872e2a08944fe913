package model

import "time"

// Session은 로그인 세션 (Bearer 토큰)
type Session struct {
	Token     string    `db:"token" json:"token"`
	AccountID int64     `db:"account_id" json:"accountId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
