// Package clock decides what "today" is. The network clock asks a time API once in a while and
// otherwise runs off the local clock plus the last measured offset.
package clock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Clock returns the current time
type Clock interface {
	Now() time.Time
}

// Local is the process clock in a fixed location
type Local struct {
	Location *time.Location
}

func (l Local) Now() time.Time {
	if l.Location == nil {
		return time.Now()
	}
	return time.Now().In(l.Location)
}

// timeResponse is the subset of the worldtimeapi.org payload we read
type timeResponse struct {
	Datetime string `json:"datetime"`
	Unixtime int64  `json:"unixtime"`
}

// Network corrects the local clock with a best-effort HTTP time lookup
type Network struct {
	url    string
	client *http.Client
	loc    *time.Location
	log    *logrus.Logger

	mu     sync.RWMutex
	offset time.Duration
	synced bool
	local  func() time.Time
}

// NewNetwork creates a network clock. Every lookup is bounded by timeout.
func NewNetwork(url string, timeout time.Duration, loc *time.Location, log *logrus.Logger) *Network {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Network{
		url:    url,
		client: &http.Client{Timeout: timeout},
		loc:    loc,
		log:    log,
		local:  time.Now,
	}
}

// Now returns local time corrected by the last successful sync
func (c *Network) Now() time.Time {
	c.mu.RLock()
	offset := c.offset
	c.mu.RUnlock()
	return c.local().Add(offset).In(c.loc)
}

// Synced reports whether any lookup has succeeded
func (c *Network) Synced() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.synced
}

// Sync performs one lookup. On any failure the previous offset is kept and the failure is only
// logged, so callers never see an error from the clock.
func (c *Network) Sync(ctx context.Context) {
	if c.url == "" {
		return
	}
	remote, err := c.fetch(ctx)
	if err != nil {
		c.log.WithField("url", c.url).Warnf("Time lookup failed, using local clock: %v", err)
		return
	}

	c.mu.Lock()
	c.offset = remote.Sub(c.local())
	c.synced = true
	c.mu.Unlock()
	c.log.WithField("offset", c.offset.String()).Debug("Clock synced")
}

func (c *Network) fetch(ctx context.Context) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload timeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if payload.Datetime != "" {
		if t, err := time.Parse(time.RFC3339Nano, payload.Datetime); err == nil {
			return t, nil
		}
	}
	if payload.Unixtime > 0 {
		return time.Unix(payload.Unixtime, 0), nil
	}
	return time.Time{}, fmt.Errorf("response carries no usable time")
}
