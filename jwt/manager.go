package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds the signing secret and token parameters.
type Config struct {
	// Secret is the shared HS256 signing key.
	Secret []byte
	// TTL is the token lifetime from issuance. Defaults to one hour.
	TTL time.Duration
	// Issuer is stamped into and required from every token when set.
	Issuer string
	// Now overrides the clock; nil means time.Now. Both issuance and
	// verification use it, so expiry behavior is fully testable.
	Now func() time.Time
}

// Claims is the decoded identity carried by a BankBridge token.
type Claims struct {
	UserID        string `json:"userId"`
	AccountNumber string `json:"accountNumber"`
	jwt.RegisteredClaims
}

var (
	// ErrInvalid reports a token with a bad signature, algorithm, or shape.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired reports a structurally valid token past its expiry.
	ErrExpired = errors.New("token expired")
)

// Manager signs and verifies tokens. Immutable after construction.
type Manager struct {
	config Config
}

// NewManager validates the configuration and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt: signing secret required")
	}
	if cfg.TTL == 0 {
		cfg.TTL = time.Hour
	}
	if cfg.TTL < 0 {
		return nil, errors.New("jwt: invalid TTL")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{config: cfg}, nil
}

// Issue produces a signed token for the account identity. accountNumber is
// the decrypted claim value; callers must never pass ciphertext here.
func (m *Manager) Issue(userID, accountNumber string) (string, error) {
	now := m.config.Now()
	claims := Claims{
		UserID:        userID,
		AccountNumber: accountNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
			Issuer:    m.config.Issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// Parse verifies signature and expiry and returns the decoded claims.
// Expired tokens are reported as ErrExpired; every other failure mode maps
// to ErrInvalid.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.config.Now),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
