package status

import (
	"context"
	"sync"

	"github.com/polyflowrobotics/robot-console/internal/logging"
	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
)

// Backend performs the network calls behind a save.
// *wificonfig.Client satisfies it.
type Backend interface {
	Submit(ctx context.Context, creds wificonfig.Credentials) error
	Clear(ctx context.Context) error
}

// Listener is notified of every status transition
type Listener func(SaveStatus)

// Controller drives the save flow: idle → saving → success/error.
//
// Only one request is ever in flight. Calling Save while saving is a no-op
// that returns the current status. There is no retry; an error stays until
// the next explicit attempt.
type Controller struct {
	backend Backend

	mu        sync.Mutex
	current   SaveStatus
	closed    bool
	listeners []Listener
}

// NewController creates a controller in the idle state
func NewController(backend Backend) *Controller {
	return &Controller{backend: backend}
}

// Status returns the current save status
func (c *Controller) Status() SaveStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Subscribe registers a listener for status transitions. Listeners run
// synchronously, outside the controller lock.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Save validates creds and submits them.
// An empty SSID fails immediately with "SSID is required" and no request.
func (c *Controller) Save(ctx context.Context, creds wificonfig.Credentials) SaveStatus {
	return c.run(ctx, func() error {
		return wificonfig.ValidateCredentials(creds)
	}, func(ctx context.Context) error {
		return c.backend.Submit(ctx, creds)
	}, MessageSaved)
}

// Clear asks the robot to forget its network, using the same state machine
// as Save.
func (c *Controller) Clear(ctx context.Context) SaveStatus {
	return c.run(ctx, nil, c.backend.Clear, MessageCleared)
}

// Close marks the owning view as torn down. A response that arrives after
// Close is discarded: the status does not change and no listener runs.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Controller) run(ctx context.Context, validate func() error, call func(context.Context) error, successMsg string) SaveStatus {
	c.mu.Lock()
	if c.closed || c.current.State == StateSaving {
		current := c.current
		c.mu.Unlock()
		return current
	}

	if validate != nil {
		if err := validate(); err != nil {
			next := SaveStatus{State: StateError, Message: wificonfig.SaveMessage(err)}
			listeners := c.transitionLocked(next)
			c.mu.Unlock()
			notify(listeners, next)
			return next
		}
	}

	saving := SaveStatus{State: StateSaving}
	listeners := c.transitionLocked(saving)
	c.mu.Unlock()
	notify(listeners, saving)

	err := call(ctx)

	next := SaveStatus{State: StateSuccess, Message: successMsg}
	if err != nil {
		next = SaveStatus{State: StateError, Message: wificonfig.SaveMessage(err)}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return next
	}
	listeners = c.transitionLocked(next)
	c.mu.Unlock()
	notify(listeners, next)

	return next
}

// transitionLocked sets the new status and returns the listeners to notify.
// c.mu must be held.
func (c *Controller) transitionLocked(next SaveStatus) []Listener {
	logging.LogSaveTransition(c.current.State.String(), next.State.String(), next.Message)
	c.current = next
	return append([]Listener(nil), c.listeners...)
}

func notify(listeners []Listener, s SaveStatus) {
	for _, l := range listeners {
		l(s)
	}
}
