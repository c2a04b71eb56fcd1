// Package shell holds the commands the embedded UI can call. It knows
// nothing about the windowing toolkit: the desktop entry point sets the
// WindowRef once a window exists and binds Shell as a UI service.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mastermind-ai/mastermind/internal/logging"
	"github.com/mastermind-ai/mastermind/internal/platform"
	"github.com/mastermind-ai/mastermind/internal/relay"
)

// Window is the main window as seen by the commands.
type Window interface {
	ToggleFullscreen()
	// NativeHandle returns the OS window object, or an error while the
	// window is not running.
	NativeHandle() (uintptr, error)
}

// Messenger sends messages to the backend.
type Messenger interface {
	ProcessMessage(ctx context.Context, req relay.Request) (*relay.Response, error)
	Health(ctx context.Context) error
}

// WindowRef holds the main window once it exists. It is kept outside
// Shell so the UI, which can call every exported Shell method, cannot
// replace or clear it.
type WindowRef struct {
	mu sync.RWMutex
	w  Window
}

// Set records the window the toggle commands act on.
func (r *WindowRef) Set(w Window) {
	r.mu.Lock()
	r.w = w
	r.mu.Unlock()
}

func (r *WindowRef) get() Window {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.w
}

// Options configures a Shell. APIKey must already be validated.
type Options struct {
	APIKey   string
	Platform platform.Platform
	Relay    Messenger
	// Window is filled in by the caller once the window is created.
	// A nil Window leaves the toggles without a target.
	Window *WindowRef
}

// Shell implements the UI command surface.
type Shell struct {
	apiKey   string
	platform platform.Platform
	relay    Messenger
	log      logging.Logger
	window   *WindowRef
}

// New builds the command layer. It refuses an empty API key so a shell
// without a credential can never be constructed.
func New(opts Options) (*Shell, error) {
	if opts.APIKey == "" {
		return nil, errors.New("shell: API key is required")
	}
	if opts.Relay == nil {
		return nil, errors.New("shell: relay is required")
	}
	if opts.Platform == nil {
		opts.Platform = platform.Native()
	}
	if opts.Window == nil {
		opts.Window = &WindowRef{}
	}
	return &Shell{
		apiKey:   opts.APIKey,
		platform: opts.Platform,
		relay:    opts.Relay,
		log:      logging.With("component", "shell"),
		window:   opts.Window,
	}, nil
}

// handle returns the attached window and its native handle, or an
// Outcome explaining why there is none.
func (s *Shell) handle() (Window, uintptr, *Outcome) {
	w := s.window.get()
	if w == nil {
		o := noEffect(ReasonNoWindow)
		return nil, 0, &o
	}
	h, err := w.NativeHandle()
	if err != nil || h == 0 {
		o := noEffect(ReasonNoHandle)
		return nil, 0, &o
	}
	return w, h, nil
}

// ToggleFullscreen flips native fullscreen on the main window.
func (s *Shell) ToggleFullscreen() Outcome {
	w, _, o := s.handle()
	if o != nil {
		s.log.Debug("fullscreen toggle skipped", "reason", o.Reason)
		return *o
	}
	w.ToggleFullscreen()
	return applied()
}

// ToggleTitlebar shows or hides the titlebar. Repeating a call with the
// same value leaves the window unchanged.
func (s *Shell) ToggleTitlebar(show bool) Outcome {
	_, h, o := s.handle()
	if o != nil {
		s.log.Debug("titlebar toggle skipped", "reason", o.Reason)
		return *o
	}
	if err := s.platform.SetTitlebar(h, show); err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			return noEffect(ReasonUnsupported)
		}
		s.log.Error("titlebar toggle failed", "error", err)
		return noEffect(err.Error())
	}
	return applied()
}

// GetAPIKey returns the credential loaded at startup, unchanged.
func (s *Shell) GetAPIKey() string {
	if s.apiKey == "" {
		panic("shell: API key missing after startup validation")
	}
	return s.apiKey
}

// ProcessMessage relays one chat message to the backend and waits for
// its reply. Errors come back to the UI as their message text.
func (s *Shell) ProcessMessage(ctx context.Context, apiKey, message, msgContext, model string) (*relay.Response, error) {
	resp, err := s.relay.ProcessMessage(ctx, relay.Request{
		APIKey:  apiKey,
		Message: message,
		Context: msgContext,
		Model:   model,
	})
	if err != nil {
		return nil, fmt.Errorf("process message: %w", err)
	}
	return resp, nil
}

// HealthStatus reports whether the backend answered its health probe.
type HealthStatus struct {
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// CheckBackend probes the backend so the UI can show a connection state.
func (s *Shell) CheckBackend(ctx context.Context) HealthStatus {
	if err := s.relay.Health(ctx); err != nil {
		return HealthStatus{Detail: err.Error()}
	}
	return HealthStatus{Healthy: true}
}
