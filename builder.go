package bankauth

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bankbridge/bankauth/fieldcipher"
	"github.com/bankbridge/bankauth/internal/accounts"
	"github.com/bankbridge/bankauth/internal/limiters"
	"github.com/bankbridge/bankauth/internal/transfers"
	"github.com/bankbridge/bankauth/jwt"
	"github.com/bankbridge/bankauth/password"
)

// Builder assembles an Engine. Configure it during initialization; a Builder
// is single-use and must not be shared between goroutines.
type Builder struct {
	config Config
	redis  *redis.Client

	store         accounts.Store
	transferStore transfers.Store

	logger    *zap.Logger
	auditSink AuditSink
	clock     func() time.Time

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the full configuration. The config is cloned; later
// mutation of cfg does not affect the Builder.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the Redis client backing the default account and
// transfer stores. Optional: without Redis (and without explicit stores) the
// Engine runs on in-memory stores.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithStore overrides the account store. Takes precedence over WithRedis.
func (b *Builder) WithStore(store accounts.Store) *Builder {
	b.store = store
	return b
}

// WithTransferStore overrides the transfer store. Takes precedence over
// WithRedis.
func (b *Builder) WithTransferStore(store transfers.Store) *Builder {
	b.transferStore = store
	return b
}

// WithLogger supplies the structured logger used for operational warnings
// and the directory's corrupt-record reports.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink supplies the audit event destination. Audit stays disabled
// unless Config.Audit.Enabled is also set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock overrides the Engine's time source. Intended for tests that
// exercise lockout expiry and token lifetimes.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// Build validates the configuration and assembles the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	// -------- STORES --------
	store := b.store
	if store == nil {
		if b.redis != nil {
			store = accounts.NewRedisStore(b.redis, "bba")
		} else {
			store = accounts.NewMemoryStore()
		}
	}
	transferStore := b.transferStore
	if transferStore == nil {
		if b.redis != nil {
			transferStore = transfers.NewRedisStore(b.redis, "bba")
		} else {
			transferStore = transfers.NewMemoryStore()
		}
	}

	// -------- CRYPTO --------
	cipher, err := fieldcipher.New(cfg.Cipher.Secret)
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{Cost: cfg.Password.Cost})
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewManager(jwt.Config{
		Secret: cloneBytes(cfg.JWT.Secret),
		TTL:    cfg.JWT.TTL,
		Issuer: cfg.JWT.Issuer,
		Now:    clock,
	})
	if err != nil {
		return nil, err
	}

	lockoutCfg := limiters.LockoutConfig{
		MaxAttempts: cfg.Lockout.MaxAttempts,
		Duration:    cfg.Lockout.Duration,
	}
	if lockoutCfg.MaxAttempts == 0 {
		lockoutCfg.MaxAttempts = 5
	}
	if lockoutCfg.Duration == 0 {
		lockoutCfg.Duration = 15 * time.Minute
	}

	engine := &Engine{
		config:        cfg,
		store:         store,
		transferStore: transferStore,
		directory:     accounts.NewDirectory(store, cipher, logger),
		lockout:       limiters.NewLockoutTracker(store, lockoutCfg),
		cipher:        cipher,
		hasher:        hasher,
		tokens:        tokens,
		totp:          newTOTPManager(cfg.TOTP),
		audit:         newAuditDispatcher(cfg.Audit, b.auditSink),
		logger:        logger,
		clockFn:       clock,
	}

	b.built = true

	return engine, nil
}
