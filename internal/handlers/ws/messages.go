package ws

import (
	"github.com/google/uuid"
)

// MessageGroupEvent is pushed to members when a group changes.
type MessageGroupEvent struct {
	Kind    string    `json:"kind"`
	GroupID uuid.UUID `json:"group_id"`
	ActorID uuid.UUID `json:"actor_id"`
	Data    any       `json:"data,omitempty"`
}

func (msg *MessageGroupEvent) GetType() string {
	return TypeGroupEvent
}

// Process is a no-op; group events only flow server to client.
func (msg *MessageGroupEvent) Process(ctx *MessageContext) error {
	return nil
}

// MessageSubscribe narrows the connection to the listed groups.
type MessageSubscribe struct {
	GroupIDs []uuid.UUID `json:"group_ids"`
}

func (msg *MessageSubscribe) GetType() string {
	return "subscribe"
}

func (msg *MessageSubscribe) Process(ctx *MessageContext) error {
	ctx.Client.Subscribe(msg.GroupIDs...)
	return reply(ctx.Client, &MessageAck{For: msg.GetType(), GroupIDs: msg.GroupIDs})
}

type MessageUnsubscribe struct {
	GroupIDs []uuid.UUID `json:"group_ids"`
}

func (msg *MessageUnsubscribe) GetType() string {
	return "unsubscribe"
}

func (msg *MessageUnsubscribe) Process(ctx *MessageContext) error {
	ctx.Client.Unsubscribe(msg.GroupIDs...)
	return reply(ctx.Client, &MessageAck{For: msg.GetType(), GroupIDs: msg.GroupIDs})
}

// MessageAck confirms a subscription change.
type MessageAck struct {
	For      string      `json:"for"`
	GroupIDs []uuid.UUID `json:"group_ids,omitempty"`
}

func (msg *MessageAck) GetType() string {
	return "ack"
}

func (msg *MessageAck) Process(ctx *MessageContext) error {
	return nil
}

// MessagePing is a keepalive ping from client
type MessagePing struct {
}

func (msg *MessagePing) GetType() string {
	return "ping"
}

func (msg *MessagePing) Process(ctx *MessageContext) error {
	return reply(ctx.Client, &MessagePong{})
}

// MessagePong is a pong response (in case client wants to track latency)
type MessagePong struct {
}

func (msg *MessagePong) GetType() string {
	return "pong"
}

func (msg *MessagePong) Process(ctx *MessageContext) error {
	return nil
}
