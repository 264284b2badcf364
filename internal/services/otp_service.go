package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/craftconnect/authsvc/domain"
)

// OTPServiceImpl implements domain.OTPService using Redis persistence.
// One pending transaction exists per user per scope; attempts and
// initiation rate limits are tracked as Redis counters.
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	userRepo        domain.UserRepository
	redisClient     *redis.Client
	config          OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	RateLimit    int
	RateWindow   time.Duration
	DevMode      bool
	DevCode      string
	RetryBackoff time.Duration
}

// storedTransaction is the Redis representation of a pending code.
type storedTransaction struct {
	TransactionID string    `json:"txn_id"`
	Identifier    string    `json:"identifier"`
	Masked        string    `json:"masked"`
	UserID        uint      `json:"user_id"`
	CodeHash      string    `json:"code_hash"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// NewOTPService creates a new Redis-based OTP service.
func NewOTPService(notificationSvc domain.NotificationService, userRepo domain.UserRepository, redisClient *redis.Client, config OTPConfig) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		userRepo:        userRepo,
		redisClient:     redisClient,
		config:          config,
	}
}

func txnKey(scope domain.OTPScope, userID uint) string {
	return fmt.Sprintf("otp:%s:%d", scope, userID)
}

func attemptsKey(scope domain.OTPScope, userID uint) string {
	return fmt.Sprintf("otp:att:%s:%d", scope, userID)
}

func rateKey(scope domain.OTPScope, userID uint) string {
	return fmt.Sprintf("otp:rate:%s:%d", scope, userID)
}

// Initiate implements domain.OTPService. Identifier format is validated
// before any provider contact or state write.
func (s *OTPServiceImpl) Initiate(ctx context.Context, scope domain.OTPScope, userID uint, identifier string) (*domain.OTPTransaction, error) {
	canonical, masked, err := s.canonicalize(scope, identifier)
	if err != nil {
		return nil, err
	}

	if err := s.checkRateLimit(ctx, scope, userID); err != nil {
		return nil, err
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	txn := storedTransaction{
		TransactionID: uuid.NewString(),
		Identifier:    canonical,
		Masked:        masked,
		UserID:        userID,
		CodeHash:      hashCode(code),
		ExpiresAt:     time.Now().Add(s.config.TTL),
	}
	data, err := json.Marshal(txn)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OTP transaction: %w", err)
	}

	// Keys outlive ExpiresAt slightly so a late verify reports EXPIRED
	// instead of "no verification in progress".
	keyTTL := s.config.TTL + 5*time.Minute
	if err := s.redisClient.Set(ctx, txnKey(scope, userID), data, keyTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store OTP transaction: %w", err)
	}
	if err := s.redisClient.Set(ctx, attemptsKey(scope, userID), 0, keyTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to initialize attempts counter: %w", err)
	}

	if err := s.deliver(ctx, scope, canonical, userID, code); err != nil {
		// Roll back so a failed delivery leaves no pending transaction.
		s.redisClient.Del(ctx, txnKey(scope, userID), attemptsKey(scope, userID))
		return nil, err
	}

	return &domain.OTPTransaction{
		TransactionID: txn.TransactionID,
		Identifier:    canonical,
		Masked:        masked,
		UserID:        userID,
		ExpiresAt:     txn.ExpiresAt,
	}, nil
}

// Verify implements domain.OTPService. Attempts are counted atomically;
// once MaxAttempts failures accumulate, further calls fail LOCKED even
// with the correct code until a new transaction is initiated.
func (s *OTPServiceImpl) Verify(ctx context.Context, scope domain.OTPScope, userID uint, code string) (*domain.OTPTransaction, error) {
	data, err := s.redisClient.Get(ctx, txnKey(scope, userID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrNoVerificationInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load OTP transaction: %w", err)
	}

	var txn storedTransaction
	if err := json.Unmarshal([]byte(data), &txn); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OTP transaction: %w", err)
	}

	if time.Now().After(txn.ExpiresAt) {
		s.redisClient.Del(ctx, txnKey(scope, userID), attemptsKey(scope, userID))
		return nil, domain.ErrOTPExpired
	}

	attempts, err := s.redisClient.Incr(ctx, attemptsKey(scope, userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to increment attempts: %w", err)
	}
	if attempts > int64(s.config.MaxAttempts) {
		return nil, domain.ErrOTPLocked
	}

	if hashCode(code) != txn.CodeHash {
		return nil, domain.ErrOTPInvalid
	}

	s.redisClient.Del(ctx, txnKey(scope, userID), attemptsKey(scope, userID))

	return &domain.OTPTransaction{
		TransactionID: txn.TransactionID,
		Identifier:    txn.Identifier,
		Masked:        txn.Masked,
		UserID:        userID,
		ExpiresAt:     txn.ExpiresAt,
		Attempts:      int(attempts),
	}, nil
}

func (s *OTPServiceImpl) checkRateLimit(ctx context.Context, scope domain.OTPScope, userID uint) error {
	pipe := s.redisClient.TxPipeline()
	incr := pipe.Incr(ctx, rateKey(scope, userID))
	pipe.ExpireNX(ctx, rateKey(scope, userID), s.config.RateWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to track initiation rate: %w", err)
	}
	if incr.Val() > int64(s.config.RateLimit) {
		return domain.ErrRateLimited
	}
	return nil
}

// deliver sends the code over SMS with one backoff retry for transient
// provider failures. Aadhaar codes go to the user's registered phone.
func (s *OTPServiceImpl) deliver(ctx context.Context, scope domain.OTPScope, identifier string, userID uint, code string) error {
	to := identifier
	if scope == domain.ScopeAadhaar {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		to = user.Phone
	}

	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	err := s.notificationSvc.SendSMS(ctx, to, message)
	if err == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return err
	case <-time.After(s.config.RetryBackoff):
	}
	return s.notificationSvc.SendSMS(ctx, to, message)
}

func (s *OTPServiceImpl) canonicalize(scope domain.OTPScope, identifier string) (canonical, masked string, err error) {
	switch scope {
	case domain.ScopePhone:
		canonical, err = CanonicalPhone(identifier)
		if err != nil {
			return "", "", err
		}
		return canonical, domain.MaskPhone(canonical), nil
	case domain.ScopeAadhaar:
		canonical, err = CanonicalAadhaar(identifier)
		if err != nil {
			return "", "", err
		}
		return canonical, domain.MaskAadhaar(canonical), nil
	}
	return "", "", fmt.Errorf("%w: unknown verification scope %q", domain.ErrValidationFailed, scope)
}

// generateCode produces a numeric code. Dev mode pins the well-known
// test code so flows can be exercised without a live SMS provider.
func (s *OTPServiceImpl) generateCode() (string, error) {
	if s.config.DevMode {
		return s.config.DevCode, nil
	}
	digits := make([]byte, s.config.Length)
	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// CanonicalPhone validates an E.164-like phone number.
func CanonicalPhone(phone string) (string, error) {
	trimmed := strings.TrimSpace(phone)
	if !phonePattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: invalid phone number format", domain.ErrValidationFailed)
	}
	return trimmed, nil
}

// CanonicalAadhaar validates a 12-digit Aadhaar number, accepting space
// or hyphen separators, and strips them before storage.
func CanonicalAadhaar(aadhaar string) (string, error) {
	canonical := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(aadhaar))
	if len(canonical) != 12 {
		return "", fmt.Errorf("%w: aadhaar number must be 12 digits", domain.ErrValidationFailed)
	}
	allSame := true
	for i := 0; i < len(canonical); i++ {
		if canonical[i] < '0' || canonical[i] > '9' {
			return "", fmt.Errorf("%w: aadhaar number must be 12 digits", domain.ErrValidationFailed)
		}
		if canonical[i] != canonical[0] {
			allSame = false
		}
	}
	if allSame {
		return "", fmt.Errorf("%w: invalid aadhaar number", domain.ErrValidationFailed)
	}
	return canonical, nil
}
