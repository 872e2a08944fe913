// Package db는 SQLite 연결과 스키마 초기화를 담당합니다.
package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // 기본 드라이버 (cgo)
	_ "modernc.org/sqlite"          // cgo 없이 빌드할 때 사용
)

// 지원하는 드라이버 이름
const (
	DriverMattn   = "sqlite3"
	DriverModernc = "sqlite"
)

// TimeFormat: 모든 시간 컬럼은 UTC TEXT로 저장
const TimeFormat = "2006-01-02 15:04:05"

//go:embed schema.sql
var schemaSQL string

// Open: 파일 DB를 열고 스키마를 적용합니다.
func Open(driver, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	dsn, err := fileDSN(driver, path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database connection: %w", err)
	}
	// sqlite는 동시 쓰기를 허용하지 않으므로 연결 하나로 직렬화
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenMemory: 테스트용 인메모리 DB. name이 같으면 같은 DB를 공유한다.
func OpenMemory(driver, name string) (*sql.DB, error) {
	if driver != DriverMattn && driver != DriverModernc {
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database connection: %w", err)
	}
	// 연결이 모두 닫히면 인메모리 DB가 사라지므로 연결 하나를 계속 재사용
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate: schema.sql 실행 (CREATE ... IF NOT EXISTS 이므로 여러 번 실행해도 안전)
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("could not execute schema: %w", err)
	}
	return nil
}

func fileDSN(driver, path string) (string, error) {
	switch driver {
	case DriverMattn:
		return "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000", nil
	case DriverModernc:
		return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
	}
	return "", fmt.Errorf("unsupported sqlite driver %q", driver)
}

// FormatTime은 저장용 문자열로 변환
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime은 저장된 TEXT 시간을 파싱
func ParseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	return t, nil
}
