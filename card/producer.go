package card

import (
	"time"

	cardmsg "atlas-cards/kafka/message/card"

	"github.com/Chronicle20/atlas-kafka/producer"
	"github.com/Chronicle20/atlas-model/model"
	"github.com/segmentio/kafka-go"
)

// MintedEventProvider creates a provider for card minted events
func MintedEventProvider(cardId uint32, ownerId uint32, level uint32, mintedAt time.Time) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(cardId))
	value := &cardmsg.Event[cardmsg.MintedBody]{
		CardId: cardId,
		Type:   cardmsg.EventCardMinted,
		Body: cardmsg.MintedBody{
			CardId:   cardId,
			OwnerId:  ownerId,
			Level:    level,
			MintedAt: mintedAt,
		},
	}
	return producer.SingleMessageProvider(key, value)
}

// UsedEventProvider creates a provider for card used events. The event
// carries the remaining headroom under the use bound, not the raw counter.
func UsedEventProvider(cardId uint32, remainingUses uint64, usedAt time.Time) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(cardId))
	value := &cardmsg.Event[cardmsg.UsedBody]{
		CardId: cardId,
		Type:   cardmsg.EventCardUsed,
		Body: cardmsg.UsedBody{
			CardId:        cardId,
			RemainingUses: remainingUses,
			UsedAt:        usedAt,
		},
	}
	return producer.SingleMessageProvider(key, value)
}

// BurnedEventProvider creates a provider for card burned events
func BurnedEventProvider(cardId uint32, ownerId uint32, burnedAt time.Time) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(cardId))
	value := &cardmsg.Event[cardmsg.BurnedBody]{
		CardId: cardId,
		Type:   cardmsg.EventCardBurned,
		Body: cardmsg.BurnedBody{
			CardId:   cardId,
			OwnerId:  ownerId,
			BurnedAt: burnedAt,
		},
	}
	return producer.SingleMessageProvider(key, value)
}

// TransferredEventProvider creates a provider for card transferred events
func TransferredEventProvider(cardId uint32, fromId uint32, toId uint32, transferredAt time.Time) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(cardId))
	value := &cardmsg.Event[cardmsg.TransferredBody]{
		CardId: cardId,
		Type:   cardmsg.EventCardTransferred,
		Body: cardmsg.TransferredBody{
			CardId:        cardId,
			FromId:        fromId,
			ToId:          toId,
			TransferredAt: transferredAt,
		},
	}
	return producer.SingleMessageProvider(key, value)
}

// ErrorEventProvider creates a provider for card error events
func ErrorEventProvider(cardId uint32, actorId uint32, errorCode string, errorMessage string, context string) model.Provider[[]kafka.Message] {
	key := producer.CreateKey(int(cardId))
	value := &cardmsg.Event[cardmsg.ErrorBody]{
		CardId: cardId,
		Type:   cardmsg.EventCardError,
		Body: cardmsg.ErrorBody{
			ErrorCode: errorCode,
			Message:   errorMessage,
			ActorId:   actorId,
			Context:   context,
			Timestamp: time.Now(),
		},
	}
	return producer.SingleMessageProvider(key, value)
}
