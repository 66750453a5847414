package domain

import "time"

// Routing keys of the ledger events.
const (
	EventAccountCreated = "account.created"
	EventDeposited      = "account.deposited"
	EventWithdrawn      = "account.withdrawn"
	EventAccountDeleted = "account.deleted"
)

// Event describes a committed ledger mutation.
type Event struct {
	Type       string    `json:"type"`
	PIN        int64     `json:"pin,omitempty"`
	Name       string    `json:"name,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	Balance    int64     `json:"balance"`
	Removed    int64     `json:"removed,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
