// Package mpd provides a wrapper around the gompd MPD client.
package mpd

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNotConnected is returned when a command is issued before Connect.
	ErrNotConnected = errors.New("not connected to MPD")
	// ErrWatcherRunning is returned by Watch while an earlier watcher is open.
	ErrWatcherRunning = errors.New("MPD watcher already running")
)

// Client wraps the MPD client with reconnection logic.
type Client struct {
	mu       sync.RWMutex
	client   *mpd.Client
	watcher  *mpd.Watcher
	host     string
	port     int
	password string
}

// NewClient creates a new MPD client wrapper.
func NewClient(host string, port int, password string) *Client {
	return &Client{
		host:     host,
		port:     port,
		password: password,
	}
}

// Addr returns the host:port MPD is reached at.
func (c *Client) Addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// Connect establishes connection to MPD.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connectLocked()
}

// connectLocked establishes connection (must hold lock).
func (c *Client) connectLocked() error {
	addr := c.Addr()
	log.Debug().Str("addr", addr).Msg("Connecting to MPD")

	client, err := mpd.Dial("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to MPD at %s", addr)
	}

	if c.password != "" {
		if err := client.Command("password %s", c.password).OK(); err != nil {
			client.Close()
			return errors.Wrap(err, "MPD authentication failed")
		}
	}

	c.client = client
	log.Debug().Str("addr", addr).Msg("Connected to MPD")
	return nil
}

// ensureConnected checks connection and reconnects if needed.
func (c *Client) ensureConnected() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return c.connectLocked()
	}

	if err := c.client.Ping(); err != nil {
		log.Warn().Err(err).Msg("MPD connection lost, reconnecting...")
		c.client.Close()
		c.client = nil
		return c.connectLocked()
	}

	return nil
}

// Close closes the MPD connection and any watcher.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher != nil {
		c.watcher.Close()
		c.watcher = nil
	}

	if c.client != nil {
		err := c.client.Close()
		c.client = nil
		return err
	}
	return nil
}

// Ping checks if the connection is alive.
func (c *Client) Ping() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.client == nil {
		return ErrNotConnected
	}
	return c.client.Ping()
}

// PlaylistInfo returns the current queue.
func (c *Client) PlaylistInfo() ([]mpd.Attrs, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client.PlaylistInfo(-1, -1)
}

// Move moves the songs in positions [start, end) so the first lands at position to.
func (c *Client) Move(start, end, to int) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client.Move(start, end, to)
}

// Watch starts watching for MPD subsystem changes.
// Returns a channel that receives subsystem names when they change.
// The channel is closed when the watcher is closed. Only one watcher may
// be open at a time; Close releases it.
func (c *Client) Watch(subsystems ...string) (<-chan string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher != nil {
		return nil, ErrWatcherRunning
	}

	watcher, err := mpd.NewWatcher("tcp", c.Addr(), c.password, subsystems...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}
	c.watcher = watcher

	ch := make(chan string, 10)

	go func() {
		defer close(ch)
		for {
			select {
			case subsystem, ok := <-watcher.Event:
				if !ok {
					return
				}
				ch <- subsystem
			case err, ok := <-watcher.Error:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("MPD watcher error")
				time.Sleep(time.Second)
			}
		}
	}()

	return ch, nil
}
