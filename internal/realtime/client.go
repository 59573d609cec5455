// Package realtime maintains the persistent channel the backend uses to push
// store updates at connected clients. Clients join one room per store id;
// the server broadcasts store-status changes into the room.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"menucli/internal/model"
)

const (
	eventJoinStore   = "join-store"
	eventLeaveStore  = "leave-store"
	eventStoreStatus = "store-status"
)

// Reconnect policy: 1s initial delay doubling up to a 5s cap, five attempts,
// then give up until the next explicit Connect.
const (
	reconnectDelay    = time.Second
	reconnectDelayMax = 5 * time.Second
	reconnectAttempts = 5
)

// StatusEvent is a pushed store-status change.
type StatusEvent struct {
	StoreID string            `json:"storeId"`
	Status  model.StoreStatus `json:"status"`
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// URLFromAPI derives the websocket endpoint from the REST base URL.
func URLFromAPI(base string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/ws"
	return u.String(), nil
}

type Client struct {
	url      string
	deviceID string
	log      *zap.Logger
	dialer   *websocket.Dialer

	backoffInitial time.Duration
	backoffMax     time.Duration
	maxAttempts    int

	mu         sync.Mutex
	conn       *websocket.Conn
	joined     string
	closed     bool
	loopCancel context.CancelFunc
	onStatus   func(StatusEvent)
}

type Option func(*Client)

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithDeviceID tags the handshake so the server can tell replicas apart.
func WithDeviceID(id string) Option {
	return func(c *Client) { c.deviceID = id }
}

func NewClient(wsURL string, opts ...Option) *Client {
	c := &Client{
		url:            wsURL,
		log:            zap.NewNop(),
		dialer:         websocket.DefaultDialer,
		backoffInitial: reconnectDelay,
		backoffMax:     reconnectDelayMax,
		maxAttempts:    reconnectAttempts,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// OnStoreStatus installs the handler for pushed status changes. Must be set
// before Connect.
func (c *Client) OnStoreStatus(fn func(StatusEvent)) {
	c.mu.Lock()
	c.onStatus = fn
	c.mu.Unlock()
}

// Connect dials the server and starts the read loop. ctx bounds the dial
// only; the loop keeps running until Close, reconnecting on its own per the
// backoff policy and re-joining the current store room.
func (c *Client) Connect(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.conn = conn
	c.closed = false
	c.loopCancel = cancel
	c.mu.Unlock()
	c.log.Info("realtime connected", zap.String("url", c.url))

	go c.readLoop(loopCtx, conn)
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	hdr := http.Header{}
	if c.deviceID != "" {
		hdr.Set("X-Device-Id", c.deviceID)
	}
	conn, _, err := c.dialer.DialContext(ctx, c.url, hdr)
	return conn, err
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed || ctx.Err() != nil {
				return
			}
			c.log.Warn("realtime read failed", zap.Error(err))
			next, ok := c.reconnect(ctx)
			if !ok {
				return
			}
			conn = next
			continue
		}
		c.dispatch(f)
	}
}

func (c *Client) dispatch(f frame) {
	switch f.Event {
	case eventStoreStatus:
		var ev StatusEvent
		if err := json.Unmarshal(f.Data, &ev); err != nil {
			c.log.Warn("bad store-status payload", zap.Error(err))
			return
		}
		c.mu.Lock()
		handler := c.onStatus
		c.mu.Unlock()
		if handler != nil {
			handler(ev)
		}
	default:
		c.log.Debug("ignoring event", zap.String("event", f.Event))
	}
}

func (c *Client) reconnect(ctx context.Context) (*websocket.Conn, bool) {
	delay := c.backoffInitial
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(delay):
		}
		c.log.Info("realtime reconnecting", zap.Int("attempt", attempt))

		conn, err := c.dial(ctx)
		if err == nil {
			c.mu.Lock()
			c.conn = conn
			joined := c.joined
			c.mu.Unlock()
			c.log.Info("realtime reconnected")
			if joined != "" {
				if err := c.emit(eventJoinStore, joined); err != nil {
					c.log.Warn("re-join store failed", zap.Error(err))
				}
			}
			return conn, true
		}
		c.log.Warn("realtime reconnect failed", zap.Int("attempt", attempt), zap.Error(err))

		delay *= 2
		if delay > c.backoffMax {
			delay = c.backoffMax
		}
	}
	c.log.Error("realtime gave up after maximum reconnect attempts")
	return nil, false
}

func (c *Client) emit(event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return errors.New("realtime: not connected")
	}
	return c.conn.WriteJSON(frame{Event: event, Data: raw})
}

// SwitchStore leaves the previously joined room (if any) and joins storeID.
func (c *Client) SwitchStore(storeID string) error {
	c.mu.Lock()
	prev := c.joined
	c.mu.Unlock()

	if prev != "" && prev != storeID {
		if err := c.emit(eventLeaveStore, prev); err != nil {
			c.log.Warn("leave store failed", zap.String("store", prev), zap.Error(err))
		}
	}
	if err := c.emit(eventJoinStore, storeID); err != nil {
		return err
	}
	c.mu.Lock()
	c.joined = storeID
	c.mu.Unlock()
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.loopCancel != nil {
		c.loopCancel()
		c.loopCancel = nil
	}
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
