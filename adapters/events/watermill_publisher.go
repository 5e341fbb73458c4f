package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/ports"
)

// Topics other services subscribe to.
const (
	TopicLogin          = "flashnodes.auth.login"
	TopicProjectCreated = "flashnodes.project.created"
	TopicProjectUpdated = "flashnodes.project.updated"
	TopicProjectDeleted = "flashnodes.project.deleted"
)

// LoginEvent represents a successful wallet login
type LoginEvent struct {
	Address string `json:"address"`
}

// ProjectEvent represents a project lifecycle change
type ProjectEvent struct {
	NodeID       string     `json:"node_id"`
	OwnerAddress string     `json:"owner_address,omitempty"`
	Status       string     `json:"status,omitempty"`
	IsPaid       bool       `json:"is_paid,omitempty"`
	PaidUntil    *time.Time `json:"paid_until,omitempty"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a login event
func (p *WatermillPublisher) PublishLogin(ctx context.Context, address string) error {
	return p.publish(TopicLogin, LoginEvent{Address: address})
}

// PublishProjectCreated publishes a project creation event
func (p *WatermillPublisher) PublishProjectCreated(ctx context.Context, project *core.Project) error {
	return p.publish(TopicProjectCreated, projectEvent(project))
}

// PublishProjectUpdated publishes a project update event
func (p *WatermillPublisher) PublishProjectUpdated(ctx context.Context, project *core.Project) error {
	return p.publish(TopicProjectUpdated, projectEvent(project))
}

// PublishProjectDeleted publishes a project deletion event
func (p *WatermillPublisher) PublishProjectDeleted(ctx context.Context, nodeID string) error {
	return p.publish(TopicProjectDeleted, ProjectEvent{NodeID: nodeID})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func projectEvent(p *core.Project) ProjectEvent {
	return ProjectEvent{
		NodeID:       p.NodeID.String(),
		OwnerAddress: p.OwnerAddress,
		Status:       string(p.Status),
		IsPaid:       p.IsPaid,
		PaidUntil:    p.PaidUntil,
	}
}
