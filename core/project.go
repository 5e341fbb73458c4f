package core

import (
	"time"

	"github.com/google/uuid"
)

// Status is the deployment state of a project. The intended forward path is
// pending -> deploying -> active -> expired, but administrators may set any
// status directly; transitions are not restricted.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDeploying Status = "deploying"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusDeploying, StatusActive, StatusExpired:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Mode is the node deployment mode.
type Mode string

const (
	ModeFull     Mode = "full"
	ModeArchived Mode = "archived"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFull, ModeArchived:
		return Mode(s), nil
	}
	return "", ErrInvalidMode
}

// Network is the chain the node is attached to.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// ParseNetwork validates a network string.
func ParseNetwork(s string) (Network, error) {
	switch Network(s) {
	case NetworkMainnet, NetworkTestnet:
		return Network(s), nil
	}
	return "", ErrInvalidNetwork
}

// Project is a provisioned node resource owned by an identity.
// NodeID is the external handle; APIKey tags the metrics the node emits
// and is exposed only to the owner and to administrators.
type Project struct {
	ID             int64
	NodeID         uuid.UUID
	OwnerID        int64
	OwnerAddress   string
	CurrencySymbol string
	CurrencyName   string
	Mode           Mode
	Network        Network
	Status         Status
	IsPaid         bool
	PaidUntil      *time.Time
	CreatedOn      time.Time
	APIKey         uuid.UUID
	Prefix         string
}

// ProjectUpdate is a partial update of a project's lifecycle fields.
// Nil pointers mean "leave untouched"; the reserve window is stored in
// the paid_until column, as dashboards read a single window.
type ProjectUpdate struct {
	ReserveUntil *time.Time
	IsPaid       *bool
	Status       *Status
}

// Empty reports whether no field is supplied.
func (u ProjectUpdate) Empty() bool {
	return u.ReserveUntil == nil && u.IsPaid == nil && u.Status == nil
}
