package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guarded-chat-be/internal/pkg/logger"
	"guarded-chat-be/pkg/session"
)

type fakeSession struct {
	mu       sync.Mutex
	calls    []string
	closed   bool
	cancelOK bool
}

func (f *fakeSession) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSession) HandleMessage(messageID, text string) {
	f.record("message:" + messageID + ":" + text)
}

func (f *fakeSession) Cancel() bool {
	f.record("cancel")
	return f.cancelOK
}

func (f *fakeSession) Confirm(suggestionID string) {
	f.record("confirm:" + suggestionID)
}

func (f *fakeSession) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func newTestClient(hub *Hub) (*Client, *fakeSession) {
	fs := &fakeSession{}
	c := newClient(hub, nil, "anonymous", validator.New(), logger.NewNopLogger())
	c.session = fs
	return c, fs
}

func TestClient_DispatchRoutesFrames(t *testing.T) {
	c, fs := newTestClient(nil)

	c.dispatch([]byte(`{"type":"message","id":"m1","text":"Vad kostar standard?"}`))
	c.dispatch([]byte(`{"type":"cancel"}`))
	c.dispatch([]byte(`{"type":"confirm_action","suggestionId":"s1"}`))

	assert.Equal(t, []string{"message:m1:Vad kostar standard?", "cancel", "confirm:s1"}, fs.calls)
}

func TestClient_DispatchDropsMalformedFrames(t *testing.T) {
	c, fs := newTestClient(nil)

	for _, frame := range []string{`garbage`, `{"type":"unknown"}`, `{"type":"message"}`, `{"type":"confirm_action"}`} {
		c.dispatch([]byte(frame))
	}

	assert.Empty(t, fs.calls)
}

func TestClient_SendQueuesJSON(t *testing.T) {
	c, _ := newTestClient(nil)

	require.NoError(t, c.Send(session.NewStream("Standard")))
	require.NoError(t, c.Send(session.NewStreamEnd(session.ReasonDone)))

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal(<-c.send, &first))
	assert.Equal(t, map[string]interface{}{"type": "stream", "delta": "Standard"}, first)

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal(<-c.send, &second))
	assert.Equal(t, map[string]interface{}{"type": "stream_end", "reason": "done"}, second)
}

func TestClient_SendAfterCloseFails(t *testing.T) {
	c, _ := newTestClient(nil)
	c.close()
	c.close()

	assert.ErrorIs(t, c.Send(session.NewStream("x")), ErrClientClosed)
}

func TestClient_SendTimesOutOnFullQueue(t *testing.T) {
	c, _ := newTestClient(nil)
	c.sendTimeout = 20 * time.Millisecond

	for i := 0; i < sendBuffer; i++ {
		require.NoError(t, c.Send(session.NewStream("x")))
	}

	start := time.Now()
	assert.ErrorIs(t, c.Send(session.NewStreamEnd(session.ReasonCancelled)), ErrSendTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHub_RegistryAndShutdown(t *testing.T) {
	hub := NewHub(logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())

	go hub.Run(ctx)

	a, _ := newTestClient(hub)
	b, _ := newTestClient(hub)
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 5*time.Millisecond)

	hub.Unregister(a)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-hub.Stopped()

	assert.Equal(t, 0, hub.Count())
	assert.ErrorIs(t, b.Send(session.NewStream("x")), ErrClientClosed, "shutdown closes remaining clients")

	late, _ := newTestClient(hub)
	assert.False(t, hub.Register(late))
	hub.Unregister(late)
}
