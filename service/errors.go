package service

import (
	"errors"
)

// 서비스 계층 오류 종류. HTTP 상태 코드로 변환된다.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error: 종류(Kind)와 번역 가능한 메시지 코드를 함께 전달
type Error struct {
	Kind error
	Code string
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Code
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, code string) error {
	return &Error{Kind: kind, Code: code}
}

// CodeOf: 메시지 코드가 있으면 반환
func CodeOf(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
