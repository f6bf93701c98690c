package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenSecretTooShort   = errors.New("token secret must be at least 32 bytes")
)

// MinSecretBytes is the shortest accepted HMAC signing secret.
const MinSecretBytes = 32

// Claims is the signed payload carried by an access token.
// Subject holds the user ID and ID is a unique token identifier used for revocation.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenManager creates a TokenManager signing with secret.
func NewTokenManager(secret []byte, issuer string) (*TokenManager, error) {
	if len(secret) < MinSecretBytes {
		return nil, ErrTokenSecretTooShort
	}
	return &TokenManager{
		secret: secret,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue signs a token for subjectID valid for ttl.
// It returns the encoded token and its expiry time.
func (m *TokenManager) Issue(subjectID string, ttl time.Duration) (string, time.Time, error) {
	if subjectID == "" {
		return "", time.Time{}, errors.New("subject is required")
	}
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("invalid token ttl %s", ttl)
	}

	now := m.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    m.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt.Truncate(time.Second), nil
}

// Parse verifies the token signature and then its claims.
// No header or claim field is decoded before the HS256 signature matches.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	if err := m.verifySignature(tokenString); err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// verifySignature checks the raw segments against the secret.
func (m *TokenManager) verifySignature(tokenString string) error {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return ErrTokenMalformed
	}
	for _, part := range parts {
		if _, err := base64.RawURLEncoding.DecodeString(part); err != nil {
			return ErrTokenMalformed
		}
	}

	sig, _ := base64.RawURLEncoding.DecodeString(parts[2])
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, m.secret); err != nil {
		return ErrTokenSignatureInvalid
	}
	return nil
}

// Verify returns the subject of a valid token.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// classifyTokenError maps jwt library errors onto the package sentinels.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		cause := strings.TrimPrefix(err.Error(), jwt.ErrTokenMalformed.Error()+": ")
		return fmt.Errorf("%w: %s", ErrTokenMalformed, cause)
	}
}

// SubjectID formats a user ID as a token subject.
func SubjectID(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// ParseSubjectID converts a token subject back to a user ID.
func ParseSubjectID(subject string) (uint, error) {
	id, err := strconv.ParseUint(subject, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: subject %q", ErrTokenMalformed, subject)
	}
	return uint(id), nil
}
