package status

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
)

// fakeBackend records calls and returns a preset error. When release is
// non-nil, Submit blocks until it is closed.
type fakeBackend struct {
	submitErr error
	clearErr  error
	release   chan struct{}
	entered   chan struct{}

	submits int32
	clears  int32
	last    wificonfig.Credentials
}

func (f *fakeBackend) Submit(ctx context.Context, creds wificonfig.Credentials) error {
	atomic.AddInt32(&f.submits, 1)
	f.last = creds
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.submitErr
}

func (f *fakeBackend) Clear(ctx context.Context) error {
	atomic.AddInt32(&f.clears, 1)
	return f.clearErr
}

func recordStates(c *Controller) func() []State {
	var mu sync.Mutex
	var states []State
	c.Subscribe(func(s SaveStatus) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s.State)
	})
	return func() []State {
		mu.Lock()
		defer mu.Unlock()
		return append([]State(nil), states...)
	}
}

func TestNewController_Idle(t *testing.T) {
	c := NewController(&fakeBackend{})
	got := c.Status()
	if got.State != StateIdle || got.Message != "" {
		t.Errorf("initial status = %+v, want idle with empty message", got)
	}
}

func TestSave_EmptySSID(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend)

	for _, creds := range []wificonfig.Credentials{
		{},
		{Password: "hunter22"},
	} {
		got := c.Save(context.Background(), creds)
		if got.State != StateError {
			t.Errorf("State = %v, want error", got.State)
		}
		if got.Message != "SSID is required" {
			t.Errorf("Message = %q, want %q", got.Message, "SSID is required")
		}
	}

	if n := atomic.LoadInt32(&backend.submits); n != 0 {
		t.Errorf("backend saw %d submits, want 0", n)
	}
}

func TestSave_Success(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend)
	states := recordStates(c)

	got := c.Save(context.Background(), wificonfig.Credentials{SSID: "Home", Password: "hunter22"})

	if got.State != StateSuccess || got.Message != "Saved. Switching modes..." {
		t.Errorf("status = %+v", got)
	}
	if backend.last.SSID != "Home" || backend.last.Password != "hunter22" {
		t.Errorf("backend got %+v", backend.last)
	}

	want := []State{StateSaving, StateSuccess}
	if gotStates := states(); !equalStates(gotStates, want) {
		t.Errorf("transitions = %v, want %v", gotStates, want)
	}
	if c.Status() != got {
		t.Errorf("Status() = %+v, want %+v", c.Status(), got)
	}
}

func TestSave_SavingClearsMessage(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend)

	c.Save(context.Background(), wificonfig.Credentials{})
	if c.Status().Message == "" {
		t.Fatal("precondition: error message should be set")
	}

	var sawSaving SaveStatus
	c.Subscribe(func(s SaveStatus) {
		if s.State == StateSaving {
			sawSaving = s
		}
	})
	c.Save(context.Background(), wificonfig.Credentials{SSID: "Home"})

	if sawSaving.State != StateSaving || sawSaving.Message != "" {
		t.Errorf("saving status = %+v, want empty message", sawSaving)
	}
}

func TestSave_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"body text", wificonfig.NewHTTPError(500, "X"), "X"},
		{"empty body", wificonfig.NewHTTPError(500, ""), "Failed to save"},
		{"transport", &wificonfig.ConfigError{Type: wificonfig.ErrTypeConnectionRefused, Message: "robot API refused connection"}, "robot API refused connection"},
		{"no usable message", errors.New(""), "Failed to save"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(&fakeBackend{submitErr: tt.err})
			states := recordStates(c)

			got := c.Save(context.Background(), wificonfig.Credentials{SSID: "Home"})
			if got.State != StateError {
				t.Errorf("State = %v, want error", got.State)
			}
			if got.Message != tt.want {
				t.Errorf("Message = %q, want %q", got.Message, tt.want)
			}
			if want := []State{StateSaving, StateError}; !equalStates(states(), want) {
				t.Errorf("transitions = %v, want %v", states(), want)
			}
		})
	}
}

func TestSave_RetryAfterError(t *testing.T) {
	backend := &fakeBackend{submitErr: wificonfig.NewHTTPError(500, "busy")}
	c := NewController(backend)

	if got := c.Save(context.Background(), wificonfig.Credentials{SSID: "Home"}); got.State != StateError {
		t.Fatalf("first attempt = %+v, want error", got)
	}
	if n := atomic.LoadInt32(&backend.submits); n != 1 {
		t.Fatalf("submits after failure = %d, want 1 (no automatic retry)", n)
	}

	backend.submitErr = nil
	if got := c.Save(context.Background(), wificonfig.Credentials{SSID: "Home"}); got.State != StateSuccess {
		t.Errorf("manual retry = %+v, want success", got)
	}
}

func TestSave_NoOpWhileSaving(t *testing.T) {
	backend := &fakeBackend{
		release: make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	c := NewController(backend)

	done := make(chan SaveStatus)
	go func() {
		done <- c.Save(context.Background(), wificonfig.Credentials{SSID: "Home"})
	}()

	select {
	case <-backend.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first save never reached the backend")
	}

	second := c.Save(context.Background(), wificonfig.Credentials{SSID: "Other"})
	if second.State != StateSaving {
		t.Errorf("second save = %+v, want current saving status", second)
	}
	if c.Clear(context.Background()).State != StateSaving {
		t.Error("clear should also be ignored while saving")
	}

	close(backend.release)
	if got := <-done; got.State != StateSuccess {
		t.Errorf("first save = %+v, want success", got)
	}

	if n := atomic.LoadInt32(&backend.submits); n != 1 {
		t.Errorf("submits = %d, want exactly 1", n)
	}
	if n := atomic.LoadInt32(&backend.clears); n != 0 {
		t.Errorf("clears = %d, want 0", n)
	}
}

func TestClose_DiscardsLateResponse(t *testing.T) {
	backend := &fakeBackend{
		release: make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	c := NewController(backend)
	states := recordStates(c)

	done := make(chan struct{})
	go func() {
		c.Save(context.Background(), wificonfig.Credentials{SSID: "Home"})
		close(done)
	}()

	<-backend.entered
	c.Close()
	close(backend.release)
	<-done

	if got := c.Status(); got.State != StateSaving {
		t.Errorf("status after teardown = %+v, want unchanged saving", got)
	}
	if want := []State{StateSaving}; !equalStates(states(), want) {
		t.Errorf("transitions = %v, want %v", states(), want)
	}

	// Nothing starts after Close either
	c.Save(context.Background(), wificonfig.Credentials{SSID: "Home"})
	if n := atomic.LoadInt32(&backend.submits); n != 1 {
		t.Errorf("submits = %d, want 1", n)
	}
}

func TestClear(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend)

	got := c.Clear(context.Background())
	if got.State != StateSuccess || got.Message != MessageCleared {
		t.Errorf("Clear() = %+v", got)
	}
	if n := atomic.LoadInt32(&backend.clears); n != 1 {
		t.Errorf("clears = %d, want 1", n)
	}

	backend.clearErr = wificonfig.NewHTTPError(500, "wifi switch failed")
	got = c.Clear(context.Background())
	if got.State != StateError || got.Message != "wifi switch failed" {
		t.Errorf("Clear() = %+v", got)
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateIdle:    "idle",
		StateSaving:  "saving",
		StateSuccess: "success",
		StateError:   "error",
		State(9):     "State(9)",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}

func TestSaveStatus_String(t *testing.T) {
	if got := (SaveStatus{State: StateError, Message: "X"}).String(); got != "error: X" {
		t.Errorf("String() = %q", got)
	}
	if got := (SaveStatus{}).String(); got != "idle" {
		t.Errorf("String() = %q", got)
	}
}

func equalStates(a, b []State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
