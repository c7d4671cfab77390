package storage_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/procflow-io/procflow/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "documents" {
		t.Errorf("container_name: got %s, want documents", cfg.ContainerName)
	}
	if cfg.MaxListSize != 100 {
		t.Errorf("max_list_size: got %d, want 100", cfg.MaxListSize)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "uploads")
	t.Setenv("TEST_CONN", "override-connection")
	t.Setenv("TEST_MAX_LIST", "250")

	env := &storage.Env{
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
		MaxListSize:      "TEST_MAX_LIST",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "uploads" {
		t.Errorf("container_name: got %s, want uploads", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
	if cfg.MaxListSize != 250 {
		t.Errorf("max_list_size: got %d, want 250", cfg.MaxListSize)
	}
}

func TestFinalizeValidation(t *testing.T) {
	t.Run("missing connection", func(t *testing.T) {
		cfg := storage.Config{ContainerName: "docs"}
		err := cfg.Finalize(nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "connection_string or account_url required") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("account URL alone is sufficient", func(t *testing.T) {
		cfg := storage.Config{AccountURL: "https://acct.blob.core.windows.net"}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("max_list_size capped", func(t *testing.T) {
		cfg := storage.Config{ConnectionString: "conn", MaxListSize: 9999}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.MaxListSize != storage.MaxListCap {
			t.Errorf("max_list_size: got %d, want %d", cfg.MaxListSize, storage.MaxListCap)
		}
	})
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		ContainerName:    "documents",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{ConnectionString: "overlay-conn"}
	base.Merge(&overlay)

	if base.ContainerName != "documents" {
		t.Errorf("container_name should remain documents, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
}

func TestParseMaxResults(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int32
		wantErr bool
	}{
		{"empty uses fallback", "", 100, false},
		{"explicit value", "25", 25, false},
		{"capped at limit", "9999", storage.MaxListCap, false},
		{"zero rejected", "0", 0, true},
		{"negative rejected", "-5", 0, true},
		{"non-numeric rejected", "many", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.ParseMaxResults(tt.value, 100)
			if tt.wantErr {
				if !errors.Is(err, storage.ErrInvalidMaxResults) {
					t.Fatalf("error = %v, want ErrInvalidMaxResults", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMaxResults(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}
