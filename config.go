package bankauth

import (
	"errors"
	"time"
)

// Config carries every tunable of the engine. It is constructed once at
// process start, validated in Build, and treated as immutable afterwards.
// No component reads ambient global state.
type Config struct {
	Cipher   CipherConfig
	Password PasswordConfig
	Lockout  LockoutConfig
	TOTP     TOTPConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Audit    AuditConfig
}

/*
====================================
CIPHER CONFIG
====================================
*/

// CipherConfig configures field-level encryption of PII at rest.
type CipherConfig struct {
	// Secret is the field-encryption passphrase. It is padded/truncated to
	// the 32-byte AES-256 key; rotating it orphans existing ciphertext.
	Secret string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig configures credential hashing.
type PasswordConfig struct {
	// Cost is the bcrypt work factor. 0 selects the default (12).
	Cost int
}

/*
====================================
LOCKOUT CONFIG
====================================
*/

// LockoutConfig configures failed-login throttling per account.
type LockoutConfig struct {
	// MaxAttempts is the failure count that triggers a lock. 0 selects 5.
	MaxAttempts int
	// Duration is how long a lock lasts. 0 selects 15 minutes.
	Duration time.Duration
}

/*
====================================
TOTP CONFIG
====================================
*/

// TOTPConfig configures multi-factor code generation and validation.
type TOTPConfig struct {
	Issuer string
	Digits int
	Period int
	// Skew is the tolerated clock drift in time steps on either side.
	Skew int
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures bearer-token issuance.
type JWTConfig struct {
	// Secret is the shared HS256 signing key.
	Secret []byte
	// TTL is the token lifetime. 0 selects one hour.
	TTL time.Duration
	// Issuer is stamped into every token when set.
	Issuer string
}

/*
====================================
ADMIN CONFIG
====================================
*/

// AdminConfig seeds the single employee/admin account. Exactly one admin is
// expected to exist; SeedAdmin upserts it from these values.
type AdminConfig struct {
	AccountNumber string
	Email         string
	// Password may be plaintext or an existing bcrypt digest; plaintext is
	// hashed during seeding.
	Password string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig configures the asynchronous audit event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking callers when the buffer
	// is saturated; dropped counts are observable via Engine.AuditDropped.
	DropIfFull bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration a bare New() starts from. Callers
// building a Config from scratch should start here and override fields.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Password: PasswordConfig{
			Cost: 12,
		},
		Lockout: LockoutConfig{
			MaxAttempts: 5,
			Duration:    15 * time.Minute,
		},
		TOTP: TOTPConfig{
			Issuer: "BankBridge",
			Digits: 6,
			Period: 30,
			Skew:   2,
		},
		JWT: JWTConfig{
			TTL:    time.Hour,
			Issuer: "bankbridge",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

// Validate rejects configurations the engine cannot run safely with.
func (c *Config) Validate() error {
	if c.Cipher.Secret == "" {
		return errors.New("Cipher.Secret is required")
	}
	if len(c.JWT.Secret) == 0 {
		return errors.New("JWT.Secret is required")
	}
	if c.JWT.TTL < 0 {
		return errors.New("JWT.TTL must not be negative")
	}
	if c.Password.Cost != 0 && (c.Password.Cost < 10 || c.Password.Cost > 14) {
		return errors.New("Password.Cost must be between 10 and 14")
	}
	if c.Lockout.MaxAttempts < 0 {
		return errors.New("Lockout.MaxAttempts must not be negative")
	}
	if c.Lockout.Duration < 0 {
		return errors.New("Lockout.Duration must not be negative")
	}
	if c.TOTP.Digits != 0 && c.TOTP.Digits != 6 && c.TOTP.Digits != 8 {
		return errors.New("TOTP.Digits must be 6 or 8")
	}
	if c.TOTP.Period < 0 || c.TOTP.Skew < 0 {
		return errors.New("TOTP.Period and TOTP.Skew must not be negative")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
