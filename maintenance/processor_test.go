package maintenance

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

func TestProcessor_DefaultNotHalted(t *testing.T) {
	db := setupTestDB(t)
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	processor := NewProcessor(log, setupTestContext(uuid.New()), db)

	halted, err := processor.IsHalted()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if halted {
		t.Error("Expected tenant without flag row to not be halted")
	}
}

func TestProcessor_SetHaltedRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	processor := NewProcessor(log, setupTestContext(uuid.New()), db)

	if err := processor.SetHalted(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	halted, _ := processor.IsHalted()
	if !halted {
		t.Error("Expected halted after set")
	}

	if err := processor.SetHalted(false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	halted, _ = processor.IsHalted()
	if halted {
		t.Error("Expected not halted after reset")
	}
}

func TestProcessor_TenantIsolation(t *testing.T) {
	db := setupTestDB(t)
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	processorA := NewProcessor(log, setupTestContext(uuid.New()), db)
	processorB := NewProcessor(log, setupTestContext(uuid.New()), db)

	if err := processorA.SetHalted(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	halted, err := processorB.IsHalted()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if halted {
		t.Error("Expected halt flag to be scoped per tenant")
	}
}
