package model

import "github.com/bsv-blockchain/go-bt/v2/chainhash"

type NotificationType int

const (
	NotificationBlock NotificationType = iota
	NotificationBlockValidated
	NotificationMiningOn
)

func (t NotificationType) String() string {
	switch t {
	case NotificationBlock:
		return "Block"
	case NotificationBlockValidated:
		return "BlockValidated"
	case NotificationMiningOn:
		return "MiningOn"
	default:
		return "Unknown"
	}
}

// Notification announces a chain event to subscribers.
type Notification struct {
	Type   NotificationType
	Hash   *chainhash.Hash
	Height uint32
}
