package notify

import (
	"context"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"
)

// StatusChange is the payload of a status_changed event
type StatusChange struct {
	EntryID uint               `json:"entry_id"`
	Status  domain.QueueStatus `json:"status"`
	Meta    map[string]any     `json:"meta,omitempty"`
}

// HubNotifier broadcasts directly into the in-process hub
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier for a single-instance deployment
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

var _ ports.Notifier = (*HubNotifier)(nil)

func (n *HubNotifier) NotifyQueueUpdate(_ context.Context, update ports.QueueUpdate) error {
	n.hub.Broadcast(Message{Event: EventQueueUpdate, Data: update})
	return nil
}

func (n *HubNotifier) NotifyStatusChanged(_ context.Context, entryID uint, status domain.QueueStatus, meta map[string]any) error {
	n.hub.Broadcast(Message{Event: EventStatusChanged, Data: StatusChange{EntryID: entryID, Status: status, Meta: meta}})
	return nil
}

func (n *HubNotifier) NotifySettlementCreated(_ context.Context, payload ports.SettlementPayload) error {
	n.hub.Broadcast(Message{Event: EventSettlementCreated, Data: payload})
	return nil
}

func (n *HubNotifier) NotifyTransactionUpdate(_ context.Context, payload ports.TransactionPayload) error {
	n.hub.Broadcast(Message{Event: EventTransactionUpdate, Data: payload})
	return nil
}
