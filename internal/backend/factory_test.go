package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"pocket/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{StoreBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{StoreBackend: "sqlite", SQLiteDBPath: "/tmp/x.db"})
	if err != nil || cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.db" {
		t.Errorf("FromAppConfig = %+v, %v", cfg, err)
	}

	cfg, err = FromAppConfig(&config.Config{StoreBackend: "postgres", DatabaseURL: "postgres://localhost/pocket"})
	if err != nil || cfg.Type != PostgresBackend || cfg.DatabaseURL != "postgres://localhost/pocket" {
		t.Errorf("FromAppConfig = %+v, %v", cfg, err)
	}
}

func TestCreateStore(t *testing.T) {
	f := NewFactory(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "pocket.db")}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"postgres without url", Config{Type: PostgresBackend}, true},
		{"unknown", Config{Type: "redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateStore(ctx, tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if res.Cleanup != nil {
				defer res.Cleanup()
			}

			if err := res.Store.Set(ctx, "k", "v"); err != nil {
				t.Fatalf("set: %v", err)
			}
			v, ok, err := res.Store.Get(ctx, "k")
			if err != nil || !ok || v != "v" {
				t.Errorf("get = %q %v %v", v, ok, err)
			}
		})
	}
}
