package card

import (
	"context"
	"testing"

	cardService "atlas-cards/card"
	cardMsg "atlas-cards/kafka/message/card"

	"github.com/Chronicle20/atlas-kafka/consumer"
	"github.com/Chronicle20/atlas-model/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockProcessor is a mock for the card processor
type MockProcessor struct {
	mock.Mock
	cardService.Processor
}

func (m *MockProcessor) MintAndEmit(transactionId uuid.UUID, actorId uint32, ownerId uint32, level uint32) (cardService.Model, error) {
	args := m.Called(transactionId, actorId, ownerId, level)
	return args.Get(0).(cardService.Model), args.Error(1)
}

func (m *MockProcessor) MintBatchAndEmit(transactionId uuid.UUID, actorId uint32, ownerIds []uint32, levels []uint32) ([]cardService.Model, error) {
	args := m.Called(transactionId, actorId, ownerIds, levels)
	return args.Get(0).([]cardService.Model), args.Error(1)
}

func (m *MockProcessor) BurnAndEmit(transactionId uuid.UUID, actorId uint32, cardId uint32) (cardService.Model, error) {
	args := m.Called(transactionId, actorId, cardId)
	return args.Get(0).(cardService.Model), args.Error(1)
}

func (m *MockProcessor) BurnBatchAndEmit(transactionId uuid.UUID, actorId uint32, cardIds []uint32) ([]cardService.Model, error) {
	args := m.Called(transactionId, actorId, cardIds)
	return args.Get(0).([]cardService.Model), args.Error(1)
}

func (m *MockProcessor) TransferBatchAndEmit(transactionId uuid.UUID, actorId uint32, fromId uint32, toId uint32, cardIds []uint32) ([]cardService.Model, error) {
	args := m.Called(transactionId, actorId, fromId, toId, cardIds)
	return args.Get(0).([]cardService.Model), args.Error(1)
}

func (m *MockProcessor) UseAndEmit(transactionId uuid.UUID, actorId uint32, cardId uint32, count uint64) (cardService.Model, error) {
	args := m.Called(transactionId, actorId, cardId, count)
	return args.Get(0).(cardService.Model), args.Error(1)
}

func (m *MockProcessor) UseFromHolderAndEmit(transactionId uuid.UUID, actorId uint32, ownerId uint32, count uint64) (cardService.Model, error) {
	args := m.Called(transactionId, actorId, ownerId, count)
	return args.Get(0).(cardService.Model), args.Error(1)
}

func TestNewConfig(t *testing.T) {
	logger, _ := test.NewNullLogger()

	configFunc := NewConfig(logger)
	assert.NotNil(t, configFunc)

	nameFunc := configFunc("test-name")
	assert.NotNil(t, nameFunc)

	tokenFunc := nameFunc("test-token")
	assert.NotNil(t, tokenFunc)

	config := tokenFunc("test-group")
	assert.NotNil(t, config)
}

func TestInitHandlers(t *testing.T) {
	// Verify the initializer exists without requiring context or database
	assert.NotNil(t, InitHandlers)
}

func TestInitConsumers(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	initFunc := InitConsumers(logger, ctx, &gorm.DB{})
	assert.NotNil(t, initFunc)

	consumerSetupFunc := initFunc(func(config consumer.Config, decorators ...model.Decorator[consumer.Config]) {
	})
	assert.NotNil(t, consumerSetupFunc)

	consumerSetupFunc("test-group")
}

func TestHandleMint(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()
	mockProcessor := new(MockProcessor)

	minted, _ := cardService.NewBuilder(1, 2, uuid.New()).Build()
	mockProcessor.On("MintAndEmit", mock.AnythingOfType("uuid.UUID"), uint32(900), uint32(1), uint32(2)).Return(minted, nil)

	handler := handleMint(logger, ctx, mockProcessor)
	assert.NotNil(t, handler)

	cmd := cardMsg.Command[cardMsg.MintBody]{
		ActorId: 900,
		Type:    cardMsg.CommandCardMint,
		Body: cardMsg.MintBody{
			OwnerId: 1,
			Level:   2,
		},
	}

	handler(logger, ctx, cmd)
	mockProcessor.AssertExpectations(t)
}

func TestHandleMint_IgnoresOtherTypes(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()
	mockProcessor := new(MockProcessor)

	handler := handleMint(logger, ctx, mockProcessor)

	cmd := cardMsg.Command[cardMsg.MintBody]{
		ActorId: 900,
		Type:    cardMsg.CommandCardBurn,
		Body: cardMsg.MintBody{
			OwnerId: 1,
			Level:   2,
		},
	}

	handler(logger, ctx, cmd)
	mockProcessor.AssertNotCalled(t, "MintAndEmit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleMintBatch(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()
	mockProcessor := new(MockProcessor)

	first, _ := cardService.NewBuilder(1, 1, uuid.New()).Build()
	second, _ := cardService.NewBuilder(2, 2, uuid.New()).Build()
	mockProcessor.On("MintBatchAndEmit", mock.AnythingOfType("uuid.UUID"), uint32(900), []uint32{1, 2}, []uint32{1, 2}).
		Return([]cardService.Model{first, second}, nil)

	handler := handleMintBatch(logger, ctx, mockProcessor)

	cmd := cardMsg.Command[cardMsg.MintBatchBody]{
		ActorId: 900,
		Type:    cardMsg.CommandCardMintBatch,
		Body: cardMsg.MintBatchBody{
			OwnerIds: []uint32{1, 2},
			Levels:   []uint32{1, 2},
		},
	}

	handler(logger, ctx, cmd)
	mockProcessor.AssertExpectations(t)
}

func TestHandleBurn(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()
	mockProcessor := new(MockProcessor)

	burned, _ := cardService.NewBuilder(7, 2, uuid.New()).Build()
	mockProcessor.On("BurnAndEmit", mock.AnythingOfType("uuid.UUID"), uint32(1), uint32(7)).Return(burned, nil)

	handler := handleBurn(logger, ctx, mockProcessor)

	cmd := cardMsg.Command[cardMsg.BurnBody]{
		ActorId: 1,
		Type:    cardMsg.CommandCardBurn,
		Body: cardMsg.BurnBody{
			CardId: 7,
		},
	}

	handler(logger, ctx, cmd)
	mockProcessor.AssertExpectations(t)
}

func TestHandleTransferBatch(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()
	mockProcessor := new(MockProcessor)

	moved, _ := cardService.NewBuilder(7, 2, uuid.New()).Build()
	mockProcessor.On("TransferBatchAndEmit", mock.AnythingOfType("uuid.UUID"), uint32(1), uint32(1), uint32(2), []uint32{7}).
		Return([]cardService.Model{moved}, nil)

	handler := handleTransferBatch(logger, ctx, mockProcessor)

	cmd := cardMsg.Command[cardMsg.TransferBatchBody]{
		ActorId: 1,
		Type:    cardMsg.CommandCardTransferBatch,
		Body: cardMsg.TransferBatchBody{
			FromId:  1,
			ToId:    2,
			CardIds: []uint32{7},
		},
	}

	handler(logger, ctx, cmd)
	mockProcessor.AssertExpectations(t)
}

func TestHandleUse(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()
	mockProcessor := new(MockProcessor)

	used, _ := cardService.NewBuilder(7, 2, uuid.New()).SetUses(3).Build()
	mockProcessor.On("UseAndEmit", mock.AnythingOfType("uuid.UUID"), uint32(901), uint32(7), uint64(3)).Return(used, nil)

	handler := handleUse(logger, ctx, mockProcessor)

	cmd := cardMsg.Command[cardMsg.UseBody]{
		ActorId: 901,
		Type:    cardMsg.CommandCardUse,
		Body: cardMsg.UseBody{
			CardId: 7,
			Count:  3,
		},
	}

	handler(logger, ctx, cmd)
	mockProcessor.AssertExpectations(t)
}

func TestHandleUseFromHolder(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()
	mockProcessor := new(MockProcessor)

	used, _ := cardService.NewBuilder(7, 2, uuid.New()).SetUses(1).Build()
	mockProcessor.On("UseFromHolderAndEmit", mock.AnythingOfType("uuid.UUID"), uint32(901), uint32(1), uint64(1)).Return(used, nil)

	handler := handleUseFromHolder(logger, ctx, mockProcessor)

	cmd := cardMsg.Command[cardMsg.UseFromHolderBody]{
		ActorId: 901,
		Type:    cardMsg.CommandCardUseFromHolder,
		Body: cardMsg.UseFromHolderBody{
			OwnerId: 1,
			Count:   1,
		},
	}

	handler(logger, ctx, cmd)
	mockProcessor.AssertExpectations(t)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "NOT_EXISTS", errorCode(cardService.ErrNotExists))
	assert.Equal(t, "ZERO_USE_COUNT", errorCode(cardService.ErrZeroUseCount))
	assert.Equal(t, "INTERNAL_ERROR", errorCode(assert.AnError))
}
