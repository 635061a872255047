package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StatusHandler receives each status notification string.
type StatusHandler func(message string)

type eventFrame struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// Notifications connects to the realtime channel and invokes handler for
// every status event until the connection drops or ctx is cancelled.
// The bearer token rides in the access_token query parameter because the
// websocket handshake cannot rely on headers.
func (c *Client) Notifications(ctx context.Context, handler StatusHandler) error {
	wsURL, err := c.notificationsURL()
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("notifications dial: %w (status %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("notifications dial: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	c.monitor.MarkOK()

	// Cancel-aware read loop: closing the connection unblocks ReadJSON.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var frame eventFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		if frame.Event != "status" {
			zap.L().Debug("ignoring unknown realtime event", zap.String("event", frame.Event))
			continue
		}
		handler(frame.Data)
	}
}

func (c *Client) notificationsURL() (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	switch base.Scheme {
	case "http":
		base.Scheme = "ws"
	case "https":
		base.Scheme = "wss"
	default:
		if !strings.HasPrefix(base.Scheme, "ws") {
			return "", fmt.Errorf("unsupported scheme %q", base.Scheme)
		}
	}

	base = base.JoinPath("/ws/notifications")
	query := base.Query()
	if token := c.token(); token != "" {
		query.Set("access_token", token)
	}
	base.RawQuery = query.Encode()
	return base.String(), nil
}
