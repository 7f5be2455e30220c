package ws

import (
	"encoding/json"

	"github.com/pkg/errors"
)

var (
	errSendBufferFull = errors.New("send buffer full")
	errUnknownType    = errors.New("unknown message type")
)

// MessageContext is what a frame sees while it is processed.
type MessageContext struct {
	Client *Client
	Hub    *Hub
}

// Message is implemented by every frame type, inbound or outbound.
type Message interface {
	GetType() string
	Process(ctx *MessageContext) error
}

// envelope is the wire form: {"type": ..., "payload": {...}}.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (e *ErrorResponse) GetType() string { return "error" }

func (e *ErrorResponse) Process(*MessageContext) error { return nil }

var messageTypes = map[string]func() Message{}

func init() {
	for _, newMsg := range []func() Message{
		func() Message { return &MessageGroupEvent{} },
		func() Message { return &MessageSubscribe{} },
		func() Message { return &MessageUnsubscribe{} },
		func() Message { return &MessageAck{} },
		func() Message { return &MessagePing{} },
		func() Message { return &MessagePong{} },
		func() Message { return &ErrorResponse{} },
	} {
		messageTypes[newMsg().GetType()] = newMsg
	}
}

// Serialize wraps msg in an envelope.
func Serialize(msg Message) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s payload", msg.GetType())
	}
	return json.Marshal(envelope{Type: msg.GetType(), Payload: payload})
}

// Deserialize decodes an envelope into the registered frame type. A missing
// or null payload yields the zero value of that type.
func Deserialize(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "decode envelope")
	}
	newMsg, ok := messageTypes[env.Type]
	if !ok {
		return nil, errors.Wrapf(errUnknownType, "%q", env.Type)
	}
	msg := newMsg()
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return msg, nil
	}
	if err := json.Unmarshal(env.Payload, msg); err != nil {
		return nil, errors.Wrapf(err, "decode %s payload", env.Type)
	}
	return msg, nil
}

// SendError queues an error frame for the client.
func SendError(client *Client, code, message, details string) error {
	return reply(client, &ErrorResponse{Code: code, Error: message, Details: details})
}
