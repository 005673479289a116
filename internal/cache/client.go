package cache

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client implements KV against the cache daemon's Unix socket.
// Every call dials a fresh connection.
type Client struct {
	socketPath  string
	dialTimeout time.Duration
}

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath, dialTimeout: 500 * time.Millisecond}
}

// Ping reports whether the daemon accepts connections.
func (c *Client) Ping() error {
	conn, err := net.DialTimeout("unix", c.socketPath, c.dialTimeout)
	if err != nil {
		return err
	}
	return conn.Close()
}

func (c *Client) roundTrip(req Request) (Response, error) {
	var resp Response
	conn, err := net.DialTimeout("unix", c.socketPath, c.dialTimeout)
	if err != nil {
		return resp, err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	if err := json.NewEncoder(conn).Encode(&req); err != nil {
		return resp, fmt.Errorf("cache %s %q: %w", req.Op, req.Key, err)
	}
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return resp, fmt.Errorf("cache %s %q: %w", req.Op, req.Key, err)
	}
	if !resp.OK {
		return resp, remoteError(resp.Error)
	}
	return resp, nil
}

func (c *Client) Get(key string) ([]byte, error) {
	resp, err := c.roundTrip(Request{Op: OpGet, Key: key})
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), resp.Value...), nil
}

func (c *Client) Put(key string, value []byte, ttl time.Duration) error {
	_, err := c.roundTrip(Request{Op: OpPut, Key: key, Value: value, TTLSeconds: int64(ttl / time.Second)})
	return err
}

func (c *Client) Delete(key string) error {
	_, err := c.roundTrip(Request{Op: OpDelete, Key: key})
	return err
}

// Sweep asks the daemon to drop expired entries.
func (c *Client) Sweep() (int, error) {
	resp, err := c.roundTrip(Request{Op: OpSweep})
	if err != nil {
		return 0, err
	}
	return resp.Removed, nil
}
