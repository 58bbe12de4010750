package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNPrefersExplicitValue(t *testing.T) {
	db := DBConfig{DSN: "postgres://app:secret@db:5432/bazaar"}
	if err := db.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.DSN != "postgres://app:secret@db:5432/bazaar" {
		t.Fatalf("DSN should be untouched, got %q", db.DSN)
	}
}

func TestEnsureDSNAssemblesLegacyParts(t *testing.T) {
	db := DBConfig{
		LegacyHost:     "localhost",
		LegacyPort:     5432,
		LegacyUser:     "bazaar",
		LegacyPassword: "pw",
		LegacyName:     "bazaar",
		LegacySSLMode:  "disable",
	}
	if err := db.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(db.DSN, "postgres://bazaar:pw@localhost:5432/bazaar") {
		t.Fatalf("unexpected DSN %q", db.DSN)
	}
	if !strings.Contains(db.DSN, "sslmode=disable") {
		t.Fatalf("expected sslmode in DSN, got %q", db.DSN)
	}
}

func TestEnsureDSNReportsMissingParts(t *testing.T) {
	db := DBConfig{LegacyHost: "localhost"}
	err := db.ensureDSN()
	if err == nil {
		t.Fatal("expected error for missing legacy values")
	}
	if !strings.Contains(err.Error(), EnvDBUser) || !strings.Contains(err.Error(), EnvDBName) {
		t.Fatalf("error should name the missing variables: %v", err)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "DEV"}
	if !app.IsDev() || app.IsProd() {
		t.Fatal("DEV should be dev")
	}
	app.Env = "prod"
	if !app.IsProd() || app.IsDev() {
		t.Fatal("prod should be prod")
	}
}
