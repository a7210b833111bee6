package database

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestNewDSNBuilder(t *testing.T) {
	builder := NewDSNBuilder()

	if builder == nil {
		t.Fatal("NewDSNBuilder() returned nil")
	}

	if builder.user != "" {
		t.Errorf("Expected user to be empty, got %s", builder.user)
	}

	if builder.password != "" {
		t.Errorf("Expected password to be empty, got %s", builder.password)
	}

	if builder.host != "" {
		t.Errorf("Expected host to be empty, got %s", builder.host)
	}

	if builder.port != 0 {
		t.Errorf("Expected port to be 0, got %d", builder.port)
	}

	if builder.databaseName != "" {
		t.Errorf("Expected databaseName to be empty, got %s", builder.databaseName)
	}
}

func TestDSNBuilder_Setters(t *testing.T) {
	builder := NewDSNBuilder().
		SetUser("cards").
		SetPassword("secret").
		SetHost("db.internal").
		SetPort(5433).
		SetDatabaseName("atlas_cards")

	if builder.user != "cards" {
		t.Errorf("Expected user to be 'cards', got %s", builder.user)
	}
	if builder.password != "secret" {
		t.Errorf("Expected password to be 'secret', got %s", builder.password)
	}
	if builder.host != "db.internal" {
		t.Errorf("Expected host to be 'db.internal', got %s", builder.host)
	}
	if builder.port != 5433 {
		t.Errorf("Expected port to be 5433, got %d", builder.port)
	}
	if builder.databaseName != "atlas_cards" {
		t.Errorf("Expected databaseName to be 'atlas_cards', got %s", builder.databaseName)
	}
}

func TestDSNBuilder_Build(t *testing.T) {
	dsn := NewDSNBuilder().
		SetUser("cards").
		SetPassword("secret").
		SetHost("localhost").
		SetPort(5432).
		SetDatabaseName("atlas_cards").
		Build()

	expected := "host=localhost user=cards password=secret dbname=atlas_cards port=5432 sslmode=disable TimeZone=UTC"
	if dsn != expected {
		t.Errorf("Expected DSN to be '%s', got '%s'", expected, dsn)
	}
}

func TestDSNBuilder_BuildWithDefaults(t *testing.T) {
	dsn := NewDSNBuilder().Build()

	expected := "host= user= password= dbname= port=0 sslmode=disable TimeZone=UTC"
	if dsn != expected {
		t.Errorf("Expected DSN to be '%s', got '%s'", expected, dsn)
	}
}

func TestSetMigrations(t *testing.T) {
	noop := func(db *gorm.DB) error {
		return nil
	}

	config := &Configuration{
		dsn:        "test",
		migrations: make([]Migrator, 0),
	}

	SetMigrations(noop)(config)

	if len(config.migrations) != 1 {
		t.Errorf("Expected 1 migration, got %d", len(config.migrations))
	}
}

func TestSetMigrations_Multiple(t *testing.T) {
	noop := func(db *gorm.DB) error {
		return nil
	}
	failing := func(db *gorm.DB) error {
		return errors.New("migration failed")
	}

	config := &Configuration{
		dsn:        "test",
		migrations: make([]Migrator, 0),
	}

	SetMigrations(noop, failing)(config)

	if len(config.migrations) != 2 {
		t.Errorf("Expected 2 migrations, got %d", len(config.migrations))
	}

	if config.migrations[1](nil) == nil {
		t.Error("Expected second migrator to propagate its error")
	}
}
