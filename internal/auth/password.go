package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

var (
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length of 72 bytes")
	ErrHasherBusy       = errors.New("password hasher is busy")
)

// HashPassword creates a salted bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
// A malformed hash is treated as a mismatch.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateSecret creates a random 32-byte hex-encoded secret for token signing.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Hasher runs bcrypt with a cap on concurrent operations.
// Callers wait for a free slot at most timeout (or until their context ends).
type Hasher struct {
	cost    int
	slots   *semaphore.Weighted
	timeout time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// NewHasher creates a Hasher. Non-positive concurrency means one slot.
func NewHasher(cost, concurrency int, timeout time.Duration) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Hasher{
		cost:    cost,
		slots:   semaphore.NewWeighted(int64(concurrency)),
		timeout: timeout,
	}
}

func (h *Hasher) acquire(ctx context.Context) error {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrHasherBusy, err)
	}
	return nil
}

// Hash hashes password once a slot is available.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	return HashPassword(password, h.cost)
}

// Verify compares password with hash once a slot is available.
// The error is non-nil only when no slot could be obtained.
func (h *Hasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := h.acquire(ctx); err != nil {
		return false, err
	}
	defer h.slots.Release(1)

	return CheckPassword(password, hash), nil
}

// VerifyDummy spends the same work as Verify against a throwaway hash, so
// lookups of unknown accounts take as long as a failed password check.
func (h *Hasher) VerifyDummy(ctx context.Context, password string) error {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = HashPassword("dummy-password-for-timing", h.cost)
	})
	_, err := h.Verify(ctx, password, h.dummyHash)
	return err
}
