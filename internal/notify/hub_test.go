package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func newHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.HandleConnection(conn)
	}))

	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))

	return event
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub, server := newHubServer(t)

	first := dial(t, server)
	second := dial(t, server)

	// Registration races the broadcast; give the hub loop a beat.
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast("Task 1 created")

	for _, conn := range []*websocket.Conn{first, second} {
		event := readEvent(t, conn)
		require.Equal(t, "status", event.Event)
		require.Equal(t, "Task 1 created", event.Data)
	}
}

func TestHub_MessagesArriveInOrder(t *testing.T) {
	hub, server := newHubServer(t)

	conn := dial(t, server)
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast("Task 1 created")
	hub.Broadcast("Task 1 deleted")

	require.Equal(t, "Task 1 created", readEvent(t, conn).Data)
	require.Equal(t, "Task 1 deleted", readEvent(t, conn).Data)
}

func TestHub_DisconnectedClientDoesNotBlockOthers(t *testing.T) {
	hub, server := newHubServer(t)

	gone := dial(t, server)
	stays := dial(t, server)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, gone.Close())
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast("Task 2 deleted")

	event := readEvent(t, stays)
	require.Equal(t, "Task 2 deleted", event.Data)
}

func TestHub_BroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < hubBuffer*2; i++ {
			hub.Broadcast("Task 9 created")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked the caller")
	}
}
