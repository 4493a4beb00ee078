package domain

import (
	"time"

	"github.com/google/uuid"
)

type SubscriberStatus string

const (
	SubscriberActive   SubscriberStatus = "active"
	SubscriberInactive SubscriberStatus = "inactive"
)

// Backend identifies which store serviced a subscription request.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendInMem    Backend = "in_mem"
)

// Subscriber is a newsletter signup. Email is the unique key; uniqueness is
// enforced by the storage layer, not application logic. Rows are never hard
// deleted, status flips between active and inactive.
type Subscriber struct {
	ID           uuid.UUID        `json:"id"`
	Email        string           `json:"email"`
	Domain       string           `json:"domain"`
	Status       SubscriberStatus `json:"status"`
	SubscribedAt time.Time        `json:"subscribed_at"`
	IPHash       string           `json:"ip_hash,omitempty"`
}

// SubscribeResult reports the outcome of a subscribe call, including which
// backend persisted the record.
type SubscribeResult struct {
	Success bool    `json:"success"`
	Backend Backend `json:"backend"`
	Message string  `json:"message"`
}
