package studio

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"peak/pkg/inference"
	"peak/pkg/prompt"
	"peak/pkg/schema"
	"peak/pkg/store"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusViewing    Status = "viewing"
)

type KeyStatus string

const (
	KeyMissing   KeyStatus = "missing"
	KeyConnected KeyStatus = "connected"
	KeyError     KeyStatus = "error"
)

var (
	ErrBusy     = errors.New("a generation is already in progress")
	ErrNotFound = errors.New("script not found")
)

// Connector resolves the inferencer for a provider and credential.
type Connector interface {
	Connect(ctx context.Context, provider, apiKey, model string) (inference.Inferencer, error)
}

type forgetter interface {
	Forget(provider, apiKey, model string)
}

type Options struct {
	Store     store.Store
	Connector Connector
	// Defaults seed the configuration when none was saved.
	Defaults schema.Config
	// CountTokens logs a token estimate of every prompt.
	CountTokens bool
	// Observe is called once per generation attempt with its outcome.
	Observe func(outcome Outcome, elapsed time.Duration)

	now   func() time.Time
	newID func() string
}

// Studio is one user's session: the configuration, the history and the
// form/result state machine. All methods are safe for concurrent use, but
// only one generation runs at a time.
type Studio struct {
	mu sync.Mutex

	store     store.Store
	connector Connector
	opts      Options

	cfg       schema.Config
	history   []schema.Script
	current   *schema.Script
	status    Status
	keyStatus KeyStatus
	lastErr   string
	warnings  []string

	// rev counts history mutations; saveMu orders the snapshot writes.
	rev      int
	saveMu   sync.Mutex
	savedRev int
}

// New loads the saved configuration and history. Corrupt snapshots are
// replaced by empty defaults and reported through State().Warnings.
func New(ctx context.Context, opts Options) (*Studio, error) {
	if opts.Store == nil {
		return nil, errors.New("studio: store is required")
	}
	if opts.Connector == nil {
		return nil, errors.New("studio: connector is required")
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	if opts.newID == nil {
		opts.newID = func() string { return ksuid.New().String() }
	}

	defaults := withDefaults(opts.Defaults, schema.Config{})
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("default configuration: %w", err)
	}

	s := &Studio{
		store:     opts.Store,
		connector: opts.Connector,
		opts:      opts,
		cfg:       defaults,
		status:    StatusIdle,
	}

	history, err := opts.Store.LoadHistory(ctx)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		s.warn("history could not be loaded and was reset", err)
		history = nil
	case err != nil:
		return nil, fmt.Errorf("load history: %w", err)
	}
	s.history = history

	cfg, ok, err := opts.Store.LoadConfig(ctx)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		s.warn("configuration could not be loaded, using defaults", err)
	case err != nil:
		return nil, fmt.Errorf("load configuration: %w", err)
	case ok:
		cfg = withDefaults(cfg, opts.Defaults)
		if err := cfg.Validate(); err != nil {
			s.warn("saved configuration is invalid, using defaults", err)
			break
		}
		s.cfg = cfg
	}

	s.keyStatus = KeyMissing
	if s.cfg.HasCredential() {
		s.keyStatus = KeyConnected
	}

	log.Info("studio ready", "scripts", len(s.history), "provider", s.cfg.ProviderName(), "key", s.keyStatus)
	return s, nil
}

func withDefaults(cfg, defaults schema.Config) schema.Config {
	cfg.Temperature = cmp.Or(cfg.Temperature, defaults.Temperature, schema.DefaultTemperature)
	cfg.SystemPrompt = cmp.Or(cfg.SystemPrompt, defaults.SystemPrompt, prompt.DefaultSystemPrompt)
	cfg.APIKey = cmp.Or(cfg.APIKey, defaults.APIKey)
	cfg.Provider = cmp.Or(cfg.Provider, defaults.Provider)
	cfg.Model = cmp.Or(cfg.Model, defaults.Model)
	cfg.Variant = cmp.Or(cfg.Variant, defaults.Variant)
	return cfg
}

func (s *Studio) warn(msg string, err error) {
	log.Warn(msg, "error", err)
	s.warnings = append(s.warnings, msg+": "+err.Error())
}

// State is a snapshot of the session for display.
type State struct {
	Status    Status    `json:"status"`
	KeyStatus KeyStatus `json:"key_status"`
	Error     string    `json:"error,omitempty"`
	Current   string    `json:"current,omitempty"`
	History   int       `json:"history"`
	Warnings  []string  `json:"warnings,omitempty"`
}

func (s *Studio) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Status:    s.status,
		KeyStatus: s.keyStatus,
		Error:     s.lastErr,
		History:   len(s.history),
		Warnings:  slices.Clone(s.warnings),
	}
	if s.current != nil {
		st.Current = s.current.ID
	}
	return st
}

// History returns the scripts, newest first.
func (s *Studio) History() []schema.Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

func (s *Studio) Script(id string) (schema.Script, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id)
}

func (s *Studio) find(id string) (schema.Script, bool) {
	i := slices.IndexFunc(s.history, func(sc schema.Script) bool { return sc.ID == id })
	if i < 0 {
		return schema.Script{}, false
	}
	return s.history[i], true
}

// Current returns the script being viewed, if any.
func (s *Studio) Current() (schema.Script, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return schema.Script{}, false
	}
	return *s.current, true
}

// Select shows a script from the history.
func (s *Studio) Select(id string) (schema.Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusSubmitting {
		return schema.Script{}, ErrBusy
	}
	sc, ok := s.find(id)
	if !ok {
		return schema.Script{}, ErrNotFound
	}
	s.current = &sc
	s.status = StatusViewing
	return sc, nil
}

// Close leaves the result view and returns to the form.
func (s *Studio) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusViewing {
		return
	}
	s.current = nil
	s.status = StatusIdle
}

// Config returns the configuration as currently edited.
func (s *Studio) Config() schema.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// UpdateConfig replaces the in-memory configuration. It is not persisted
// until SaveConfig.
func (s *Studio) UpdateConfig(cfg schema.Config) error {
	cfg = withDefaults(cfg, schema.Config{})
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	switch {
	case !cfg.HasCredential():
		s.keyStatus = KeyMissing
	case s.keyStatus == KeyMissing:
		s.keyStatus = KeyConnected
	}
	return nil
}

// SaveConfig persists the current configuration.
func (s *Studio) SaveConfig(ctx context.Context) error {
	cfg := s.Config()
	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	log.Info("configuration saved", "provider", cfg.ProviderName(), "temperature", cfg.Temperature, "variant", cfg.SchemaVariant())
	return nil
}
