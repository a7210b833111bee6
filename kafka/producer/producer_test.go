package producer

import (
	"context"
	"testing"

	"github.com/Chronicle20/atlas-tenant"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	tenantModel, err := tenant.Create(uuid.New(), "GMS", 83, 1)
	if err != nil {
		t.Fatalf("Failed to create tenant model: %v", err)
	}
	return tenant.WithContext(context.Background(), tenantModel)
}

func TestProviderImpl(t *testing.T) {
	logger := logrus.New()

	providerFunc := ProviderImpl(logger)
	if providerFunc == nil {
		t.Fatal("ProviderImpl() returned nil")
	}

	contextFunc := providerFunc(testContext(t))
	if contextFunc == nil {
		t.Fatal("ProviderImpl()(ctx) returned nil")
	}

	messageProducer := contextFunc("EVENT_TOPIC_CARD_STATUS")
	if messageProducer == nil {
		t.Error("ProviderImpl()(ctx)(token) returned nil")
	}
}

func TestProviderImpl_DifferentTokens(t *testing.T) {
	logger := logrus.New()
	contextFunc := ProviderImpl(logger)(testContext(t))

	if contextFunc("COMMAND_TOPIC_CARD") == nil {
		t.Error("Producer for command topic token is nil")
	}
	if contextFunc("EVENT_TOPIC_CARD_STATUS") == nil {
		t.Error("Producer for event topic token is nil")
	}
}

func TestProviderImpl_DifferentContexts(t *testing.T) {
	logger := logrus.New()
	providerFunc := ProviderImpl(logger)

	ctx1 := testContext(t)
	ctx2 := testContext(t)

	producer1 := providerFunc(ctx1)("EVENT_TOPIC_CARD_STATUS")
	producer2 := providerFunc(ctx2)("EVENT_TOPIC_CARD_STATUS")

	if producer1 == nil {
		t.Error("Producer from first tenant context is nil")
	}
	if producer2 == nil {
		t.Error("Producer from second tenant context is nil")
	}
}
