package userconfig

import (
	"testing"
)

func TestLoad_MissingFileReturnsEmptyConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestGetServerURL_Default(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	serverURL, err := GetServerURL()
	if err != nil {
		t.Fatalf("GetServerURL failed: %v", err)
	}
	if serverURL != DefaultServerURL {
		t.Errorf("expected the default server, got %s", serverURL)
	}
}

func TestSetServerURL_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SetServerURL("https://academia.example.com"); err != nil {
		t.Fatalf("SetServerURL failed: %v", err)
	}

	serverURL, err := GetServerURL()
	if err != nil {
		t.Fatalf("GetServerURL failed: %v", err)
	}
	if serverURL != "https://academia.example.com" {
		t.Errorf("expected the saved server, got %s", serverURL)
	}
}
