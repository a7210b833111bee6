package limits

import (
	"context"
	"testing"
	"time"

	tenant "github.com/Chronicle20/atlas-tenant"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.New(
			logrus.StandardLogger(),
			logger.Config{
				SlowThreshold: time.Second,
				LogLevel:      logger.Silent,
				Colorful:      false,
			},
		),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err = db.AutoMigrate(&Entity{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func setupTestContext(tenantId uuid.UUID) context.Context {
	ctx := context.Background()
	tenantModel, err := tenant.Create(tenantId, "test-region", 1, 0)
	if err != nil {
		panic(err)
	}
	return tenant.WithContext(ctx, tenantModel)
}

func setupProcessor(t *testing.T) Processor {
	db := setupTestDB(t)
	ctx := setupTestContext(uuid.New())
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	return NewProcessor(log, ctx, db)
}

func TestProcessor_Get_EnvironmentDefaults(t *testing.T) {
	processor := setupProcessor(t)

	t.Setenv(EnvDefaultMaxUses, "7")
	t.Setenv(EnvDefaultMaxOwns, "3")

	m, err := processor.Get()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.MaxUses() != 7 {
		t.Errorf("Expected maxUses 7 from environment, got %d", m.MaxUses())
	}
	if m.MaxOwns() != 3 {
		t.Errorf("Expected maxOwns 3 from environment, got %d", m.MaxOwns())
	}
}

func TestProcessor_Get_BuiltInDefaults(t *testing.T) {
	processor := setupProcessor(t)

	m, err := processor.Get()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.MaxUses() != 5 {
		t.Errorf("Expected built-in maxUses 5, got %d", m.MaxUses())
	}
	if m.MaxOwns() != 10 {
		t.Errorf("Expected built-in maxOwns 10, got %d", m.MaxOwns())
	}
}

func TestProcessor_SetAndGet(t *testing.T) {
	processor := setupProcessor(t)

	if err := processor.Set(100, 20); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	m, err := processor.Get()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.MaxUses() != 100 || m.MaxOwns() != 20 {
		t.Errorf("Expected 100/20, got %d/%d", m.MaxUses(), m.MaxOwns())
	}

	// A second set replaces, not duplicates
	if err = processor.Set(50, 10); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	m, _ = processor.Get()
	if m.MaxUses() != 50 || m.MaxOwns() != 10 {
		t.Errorf("Expected 50/10, got %d/%d", m.MaxUses(), m.MaxOwns())
	}
}
