// Package pushgate manages the push notification lifecycle for a client:
// capability detection, worker registration, permission negotiation,
// subscription creation and persistence, notification preferences, and
// delivery gating. The platform surface is injected through small shim
// interfaces so the package runs against a browser bridge, a desktop shell,
// or test doubles alike.
package pushgate

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/pushgate/internal/capability"
	"github.com/dtroode/pushgate/internal/config"
	"github.com/dtroode/pushgate/internal/logger"
	"github.com/dtroode/pushgate/internal/repository/postgres"
	"github.com/dtroode/pushgate/internal/repository/sqlite"
	"github.com/dtroode/pushgate/internal/retry"
	"github.com/dtroode/pushgate/internal/service"
)

// Config holds the lifecycle manager settings. The zero value is usable:
// New fills in the documented defaults for anything left unset.
type Config struct {
	LogLevel int

	// VAPIDPublicKey is the server-issued application key, base64url-encoded.
	// Leaving it empty is a deployment error surfaced on the first subscribe.
	VAPIDPublicKey string

	WorkerScript string
	WorkerScope  string

	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	DismissAfter time.Duration
	Icon         string

	// DatabaseDSN and CachePath configure the default stores opened by
	// OpenStores; they are unused when the caller wires its own stores.
	DatabaseDSN string
	CachePath   string
}

// FromEnv loads the configuration from environment variables.
func FromEnv() (Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		LogLevel:       cfg.LogLevel,
		VAPIDPublicKey: cfg.VAPID.PublicKey,
		WorkerScript:   cfg.Worker.ScriptPath,
		WorkerScope:    cfg.Worker.Scope,
		RetryAttempts:  cfg.Retry.MaxAttempts,
		RetryBaseDelay: cfg.Retry.BaseDelay,
		RetryMaxDelay:  cfg.Retry.MaxDelay,
		DismissAfter:   cfg.Delivery.DismissAfter,
		Icon:           cfg.Delivery.Icon,
		DatabaseDSN:    cfg.Database.DSN,
		CachePath:      cfg.Cache.Path,
	}, nil
}

// Logger is the structured logger used across the lifecycle manager.
type Logger = logger.Logger

// NewLogger returns a text logger writing to stdout at the given slog level.
func NewLogger(level int) *Logger {
	return logger.New(level)
}

// Dependencies carries everything the lifecycle manager needs from its host:
// the platform shims and the storage implementations. Logger is optional.
type Dependencies struct {
	Env           Environment
	WorkerRuntime WorkerRuntime
	Notifier      Notifier
	Focuser       Focuser

	SubscriptionStore   SubscriptionStore
	PreferenceFlagStore PreferenceFlagStore
	PreferenceCache     PreferenceCache

	Logger *Logger
}

func (d Dependencies) validate() error {
	switch {
	case d.Env == nil:
		return errors.New("pushgate: Env is required")
	case d.WorkerRuntime == nil:
		return errors.New("pushgate: WorkerRuntime is required")
	case d.Notifier == nil:
		return errors.New("pushgate: Notifier is required")
	case d.Focuser == nil:
		return errors.New("pushgate: Focuser is required")
	case d.SubscriptionStore == nil:
		return errors.New("pushgate: SubscriptionStore is required")
	case d.PreferenceFlagStore == nil:
		return errors.New("pushgate: PreferenceFlagStore is required")
	case d.PreferenceCache == nil:
		return errors.New("pushgate: PreferenceCache is required")
	}
	return nil
}

// Client is the assembled lifecycle manager. One Client serves one signed-in
// user session; all methods are safe for concurrent use.
type Client struct {
	detector    *capability.Detector
	subscripts  *service.Subscription
	sync        *service.Sync
	preferences *service.Preference
	gatekeeper  *service.Gatekeeper
	logger      *logger.Logger
}

// New wires the lifecycle manager from its configuration and dependencies.
func New(cfg Config, deps Dependencies) (*Client, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	applyConfigDefaults(&cfg)

	log := deps.Logger
	if log == nil {
		log = logger.New(cfg.LogLevel)
	}

	appKey, err := decodeApplicationKey(cfg.VAPIDPublicKey)
	if err != nil {
		return nil, err
	}

	policy := retry.Policy{
		MaxAttempts: cfg.RetryAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    cfg.RetryMaxDelay,
	}

	detector := capability.NewDetector(
		deps.Env,
		deps.Notifier,
		capability.DefaultRules(capability.DefaultMinimumVersions()),
		log,
	)
	registrar := service.NewRegistrar(deps.WorkerRuntime, cfg.WorkerScript, cfg.WorkerScope, log)
	negotiator := service.NewNegotiator(deps.Notifier, log)

	info := deps.Env.Platform()
	sync := service.NewSync(deps.SubscriptionStore, info.Name+"/"+info.Version, policy, log)

	subscriptions := service.NewSubscription(
		detector,
		registrar,
		negotiator,
		deps.SubscriptionStore,
		sync,
		appKey,
		policy,
		log,
	)
	preferences := service.NewPreference(deps.PreferenceCache, deps.PreferenceFlagStore, log)
	gatekeeper := service.NewGatekeeper(preferences, deps.Notifier, deps.Focuser, cfg.Icon, cfg.DismissAfter, log)

	return &Client{
		detector:    detector,
		subscripts:  subscriptions,
		sync:        sync,
		preferences: preferences,
		gatekeeper:  gatekeeper,
		logger:      log,
	}, nil
}

func applyConfigDefaults(cfg *Config) {
	if cfg.WorkerScript == "" {
		cfg.WorkerScript = "/sw.js"
	}
	if cfg.WorkerScope == "" {
		cfg.WorkerScope = "/"
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if cfg.RetryMaxDelay == 0 {
		cfg.RetryMaxDelay = 5 * time.Second
	}
	if cfg.DismissAfter == 0 {
		cfg.DismissAfter = 5 * time.Second
	}
}

func decodeApplicationKey(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}

	key, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil, fmt.Errorf("failed to decode application key: %w", err)
	}

	return key, nil
}

// Detect reports whether push notifications are available right now. The
// report is recomputed on every call because permission can change out-of-band.
func (c *Client) Detect(ctx context.Context) CapabilityReport {
	return c.detector.Detect(ctx)
}

// Subscribe brings the user to a subscribed state: it verifies capability,
// registers the background worker, negotiates permission, reuses or creates
// the push subscription, and persists it. Calling it again for an
// already-subscribed user is a no-op that returns the existing descriptor.
func (c *Client) Subscribe(ctx context.Context, userID uuid.UUID) (SubscriptionDescriptor, error) {
	return c.subscripts.Subscribe(ctx, userID)
}

// Unsubscribe releases the local push subscription and soft-clears the
// server record. Local release failures are logged and do not block the
// server-side cleanup.
func (c *Client) Unsubscribe(ctx context.Context, userID uuid.UUID) error {
	if err := c.subscripts.Unsubscribe(ctx); err != nil {
		c.logger.Warn("failed to release local subscription", "error", err)
	}

	return c.sync.Remove(ctx, userID)
}

// Settings returns the user's resolved notification preferences. Fresh users
// and cache failures resolve to the defaults (everything enabled).
func (c *Client) Settings(ctx context.Context, userID uuid.UUID) PreferenceRecord {
	return c.preferences.Settings(ctx, userID)
}

// UpdateSettings applies a partial preference update. Unset fields keep
// their current value.
func (c *Client) UpdateSettings(ctx context.Context, userID uuid.UUID, patch PreferencePatch) error {
	return c.preferences.Update(ctx, userID, patch)
}

// CategoryEnabled reports whether notifications for the category should be
// delivered. The global flag gates every category.
func (c *Client) CategoryEnabled(ctx context.Context, userID uuid.UUID, category Category) bool {
	return c.preferences.CategoryEnabled(ctx, userID, category)
}

// PreferenceState returns the server-side subscription status for the user.
func (c *Client) PreferenceState(ctx context.Context, userID uuid.UUID) (PreferenceState, error) {
	return c.sync.PreferenceState(ctx, userID)
}

// MaybeShow displays a notification if the user's preferences allow it and
// permission is already granted. It never prompts. The returned bool reports
// whether the notification was displayed.
func (c *Client) MaybeShow(ctx context.Context, userID uuid.UUID, category Category, title, body, tag string) bool {
	return c.gatekeeper.MaybeShow(ctx, userID, category, title, body, tag)
}

// Stores bundles the default persistence implementations: a postgres-backed
// subscription store and preference flag mirror, plus a local sqlite
// preference cache.
type Stores struct {
	Subscriptions   SubscriptionStore
	PreferenceFlags PreferenceFlagStore
	Preferences     PreferenceCache

	conn  *postgres.Connection
	cache *sqlite.PreferenceCache
}

// OpenStores opens the default stores, running schema migrations against the
// backing database.
func OpenStores(ctx context.Context, databaseDSN, cachePath string) (*Stores, error) {
	conn, err := postgres.NewConnection(ctx, databaseDSN)
	if err != nil {
		return nil, err
	}

	cache, err := sqlite.NewPreferenceCache(cachePath)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Stores{
		Subscriptions:   postgres.NewSubscriptionRepository(conn),
		PreferenceFlags: postgres.NewPreferenceRepository(conn),
		Preferences:     cache,
		conn:            conn,
		cache:           cache,
	}, nil
}

// Close releases the underlying database handles.
func (s *Stores) Close() error {
	if err := s.conn.Close(); err != nil {
		return err
	}
	return s.cache.Close()
}
