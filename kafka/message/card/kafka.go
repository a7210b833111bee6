package card

import (
	"time"
)

// Topic environment variable names
const (
	// Command topics
	EnvCommandTopic = "COMMAND_TOPIC_CARD"

	// Event topics
	EnvEventTopicStatus = "EVENT_TOPIC_CARD_STATUS"
)

// Command Types
const (
	// Lifecycle commands
	CommandCardMint          = "MINT"
	CommandCardMintBatch     = "MINT_BATCH"
	CommandCardBurn          = "BURN"
	CommandCardBurnBatch     = "BURN_BATCH"
	CommandCardTransferBatch = "TRANSFER_BATCH"

	// Use commands
	CommandCardUse           = "USE"
	CommandCardUseFromHolder = "USE_FROM_HOLDER"

	// Administrative commands
	CommandSetLevelURI  = "SET_LEVEL_URI"
	CommandSetLevelURIs = "SET_LEVEL_URIS"
	CommandSetLimits    = "SET_LIMITS"
	CommandSetHalted    = "SET_HALTED"
	CommandGrantRole    = "GRANT_ROLE"
	CommandRevokeRole   = "REVOKE_ROLE"
)

// Event Types
const (
	EventCardMinted      = "CARD_MINTED"
	EventCardUsed        = "CARD_USED"
	EventCardBurned      = "CARD_BURNED"
	EventCardTransferred = "CARD_TRANSFERRED"

	// Error events
	EventCardError = "CARD_ERROR"
)

// Generic command structure
type Command[E any] struct {
	ActorId uint32 `json:"actorId"`
	Type    string `json:"type"`
	Body    E      `json:"body"`
}

// Generic event structure
type Event[E any] struct {
	CardId uint32 `json:"cardId"`
	Type   string `json:"type"`
	Body   E      `json:"body"`
}

// Command Bodies

// MintBody represents the body of a mint command
type MintBody struct {
	OwnerId uint32 `json:"ownerId"`
	Level   uint32 `json:"level"`
}

// MintBatchBody represents the body of a batch mint command. Owners and
// Levels are parallel sequences applied in order.
type MintBatchBody struct {
	OwnerIds []uint32 `json:"ownerIds"`
	Levels   []uint32 `json:"levels"`
}

// BurnBody represents the body of a burn command
type BurnBody struct {
	CardId uint32 `json:"cardId"`
}

// BurnBatchBody represents the body of a batch burn command
type BurnBatchBody struct {
	CardIds []uint32 `json:"cardIds"`
}

// TransferBatchBody represents the body of a batch transfer command
type TransferBatchBody struct {
	FromId  uint32   `json:"fromId"`
	ToId    uint32   `json:"toId"`
	CardIds []uint32 `json:"cardIds"`
}

// UseBody represents the body of a use command
type UseBody struct {
	CardId uint32 `json:"cardId"`
	Count  uint64 `json:"count"`
}

// UseFromHolderBody represents the body of a use-from-holder command
type UseFromHolderBody struct {
	OwnerId uint32 `json:"ownerId"`
	Count   uint64 `json:"count"`
}

// SetLevelURIBody represents the body of a level URI assignment command
type SetLevelURIBody struct {
	Level uint32 `json:"level"`
	URI   string `json:"uri"`
}

// SetLevelURIsBody represents the body of a bulk level URI assignment command
type SetLevelURIsBody struct {
	Levels []uint32 `json:"levels"`
	URIs   []string `json:"uris"`
}

// SetLimitsBody represents the body of a limits update command
type SetLimitsBody struct {
	MaxUses uint64 `json:"maxUses"`
	MaxOwns uint64 `json:"maxOwns"`
}

// SetHaltedBody represents the body of a maintenance flag command
type SetHaltedBody struct {
	Halted bool `json:"halted"`
}

// GrantRoleBody represents the body of a role grant command
type GrantRoleBody struct {
	HolderId uint32 `json:"holderId"`
	Role     string `json:"role"`
}

// RevokeRoleBody represents the body of a role revoke command
type RevokeRoleBody struct {
	HolderId uint32 `json:"holderId"`
	Role     string `json:"role"`
}

// Event Bodies

// MintedBody represents the body of a card minted event
type MintedBody struct {
	CardId   uint32    `json:"cardId"`
	OwnerId  uint32    `json:"ownerId"`
	Level    uint32    `json:"level"`
	MintedAt time.Time `json:"mintedAt"`
}

// UsedBody represents the body of a card used event. RemainingUses is the
// headroom left under the global maximum, not the raw counter.
type UsedBody struct {
	CardId        uint32    `json:"cardId"`
	RemainingUses uint64    `json:"remainingUses"`
	UsedAt        time.Time `json:"usedAt"`
}

// BurnedBody represents the body of a card burned event
type BurnedBody struct {
	CardId   uint32    `json:"cardId"`
	OwnerId  uint32    `json:"ownerId"`
	BurnedAt time.Time `json:"burnedAt"`
}

// TransferredBody represents the body of a card transferred event
type TransferredBody struct {
	CardId        uint32    `json:"cardId"`
	FromId        uint32    `json:"fromId"`
	ToId          uint32    `json:"toId"`
	TransferredAt time.Time `json:"transferredAt"`
}

// ErrorBody represents the body of a card error event
type ErrorBody struct {
	ErrorCode string    `json:"errorCode"`
	Message   string    `json:"message"`
	ActorId   uint32    `json:"actorId"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
}
