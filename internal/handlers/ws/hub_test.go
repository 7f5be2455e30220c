package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/service"
	"github.com/pkg/errors"
)

// fakeConn records frames written by the hub.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
	wrote  chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{wrote: make(chan struct{}, 64)}
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	f.frames = append(f.frames, append([]byte(nil), data...))
	f.mu.Unlock()
	f.wrote <- struct{}{}
	return nil
}

func (f *fakeConn) WriteControl(int, []byte, time.Time) error { return nil }
func (f *fakeConn) SetReadDeadline(time.Time) error           { return nil }
func (f *fakeConn) SetPongHandler(func(string) error)         {}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) waitFrames(t *testing.T, n int) [][]byte {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.wrote:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for frame %d of %d", i+1, n)
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.frames...)
}

func (f *fakeConn) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func decodeEvent(t *testing.T, frame []byte) MessageGroupEvent {
	t.Helper()
	msg, err := Deserialize(frame)
	if err != nil {
		t.Fatalf("Deserialize(%s): %v", frame, err)
	}
	ev, ok := msg.(*MessageGroupEvent)
	if !ok {
		t.Fatalf("frame type = %T, want *MessageGroupEvent", msg)
	}
	return *ev
}

func TestHubPublishToRecipients(t *testing.T) {
	hub := NewHub()
	member, stranger := uuid.New(), uuid.New()
	memberConn, strangerConn := newFakeConn(), newFakeConn()
	mc := hub.Register(member, memberConn)
	sc := hub.Register(stranger, strangerConn)
	defer hub.Unregister(mc)
	defer hub.Unregister(sc)

	groupID := uuid.New()
	hub.Publish(service.GroupEvent{
		Kind:       service.EventMemberJoined,
		GroupID:    groupID,
		ActorID:    member,
		Recipients: []uuid.UUID{member, member},
	})

	frames := memberConn.waitFrames(t, 1)
	ev := decodeEvent(t, frames[0])
	if ev.Kind != service.EventMemberJoined || ev.GroupID != groupID {
		t.Errorf("event = %+v", ev)
	}

	time.Sleep(20 * time.Millisecond)
	if n := memberConn.frameCount(); n != 1 {
		t.Errorf("duplicate recipient got %d frames, want 1", n)
	}
	if n := strangerConn.frameCount(); n != 0 {
		t.Errorf("non-recipient got %d frames", n)
	}
}

func TestHubSubscriptionFilter(t *testing.T) {
	hub := NewHub()
	user := uuid.New()
	conn := newFakeConn()
	client := hub.Register(user, conn)
	defer hub.Unregister(client)

	watched, other := uuid.New(), uuid.New()
	client.Subscribe(watched)

	hub.Publish(service.GroupEvent{Kind: service.EventGroupUpdated, GroupID: other, Recipients: []uuid.UUID{user}})
	hub.Publish(service.GroupEvent{Kind: service.EventMeetupCreated, GroupID: watched, Recipients: []uuid.UUID{user}})

	frames := conn.waitFrames(t, 1)
	if ev := decodeEvent(t, frames[0]); ev.GroupID != watched {
		t.Errorf("delivered group %s, want %s", ev.GroupID, watched)
	}

	client.Unsubscribe(watched)
	hub.Publish(service.GroupEvent{Kind: service.EventGroupUpdated, GroupID: other, Recipients: []uuid.UUID{user}})
	frames = conn.waitFrames(t, 1)
	if ev := decodeEvent(t, frames[len(frames)-1]); ev.GroupID != other {
		t.Errorf("after unsubscribe got group %s, want %s", ev.GroupID, other)
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	user := uuid.New()
	a := hub.Register(user, newFakeConn())
	b := hub.Register(user, newFakeConn())

	if hub.Count() != 2 {
		t.Fatalf("Count = %d, want 2", hub.Count())
	}
	hub.Unregister(a)
	hub.Unregister(a)
	if hub.Count() != 1 {
		t.Errorf("Count after unregister = %d, want 1", hub.Count())
	}
	if a.Send([]byte("x")) {
		t.Error("Send succeeded on closed client")
	}
	hub.Unregister(b)
	if hub.Count() != 0 {
		t.Errorf("Count = %d, want 0", hub.Count())
	}
}

func TestMessageProcessing(t *testing.T) {
	hub := NewHub()
	conn := newFakeConn()
	client := hub.Register(uuid.New(), conn)
	defer hub.Unregister(client)
	ctx := &MessageContext{Client: client, Hub: hub}
	groupID := uuid.New()

	raw, _ := json.Marshal(map[string]any{
		"type":    "subscribe",
		"payload": map[string]any{"group_ids": []string{groupID.String()}},
	})
	msg, err := Deserialize(raw)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if err := msg.Process(ctx); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !client.wants(groupID) || client.wants(uuid.New()) {
		t.Error("subscription not applied")
	}

	ping, err := Deserialize([]byte(`{"type":"ping","payload":null}`))
	if err != nil {
		t.Fatalf("Deserialize ping: %v", err)
	}
	if err := ping.Process(ctx); err != nil {
		t.Fatalf("ping Process: %v", err)
	}

	frames := conn.waitFrames(t, 2)
	var types []string
	for _, f := range frames {
		var w envelope
		_ = json.Unmarshal(f, &w)
		types = append(types, w.Type)
	}
	if len(types) != 2 || types[0] != "ack" || types[1] != "pong" {
		t.Errorf("reply types = %v, want [ack pong]", types)
	}
}

func TestTypeRegistry(t *testing.T) {
	for _, name := range []string{TypeGroupEvent, "subscribe", "unsubscribe", "ack", "ping", "pong", "error"} {
		if _, ok := messageTypes[name]; !ok {
			t.Errorf("type %q not registered", name)
		}
	}
	if _, err := Deserialize([]byte(`{"type":"chat","payload":{}}`)); !errors.Is(err, errUnknownType) {
		t.Errorf("unknown type error = %v, want errUnknownType", err)
	}
}
