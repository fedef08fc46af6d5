package db

import (
	"context"
	"testing"

	"github.com/minhvule/teacart/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestPing(t *testing.T) {
	client := &Client{conn: newTestDB(t)}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestDialectorFor(t *testing.T) {
	cases := []struct {
		driver  string
		wantErr bool
	}{
		{driver: "sqlite"},
		{driver: ""},
		{driver: "postgres"},
		{driver: "SQLite"},
		{driver: "mysql", wantErr: true},
	}
	for _, tc := range cases {
		_, err := dialectorFor(config.CacheDBConfig{DSN: "file:test.db", Driver: tc.driver})
		if tc.wantErr && err == nil {
			t.Errorf("driver %q: expected error", tc.driver)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("driver %q: unexpected error %v", tc.driver, err)
		}
	}
}
