package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/craftconnect/authsvc/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// JWTServiceImpl implements domain.TokenService with HS256 signatures.
type JWTServiceImpl struct {
	secretKey       []byte
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewJWTService creates a new JWT service.
func NewJWTService(secretKey string, issuer string, accessTTL, refreshTTL time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey:       []byte(secretKey),
		issuer:          issuer,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

func (j *JWTServiceImpl) AccessTTL() time.Duration  { return j.accessTokenTTL }
func (j *JWTServiceImpl) RefreshTTL() time.Duration { return j.refreshTokenTTL }

// generateJTI creates a unique JWT ID.
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func (j *JWTServiceImpl) sign(userID uint, role domain.Role, sessionID, tokenType, jti string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    userID,
		"role":       string(role),
		"session_id": sessionID,
		"token_type": tokenType,
		"iss":        j.issuer,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
		"jti":        jti,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// GenerateAccessToken implements domain.TokenService.
func (j *JWTServiceImpl) GenerateAccessToken(userID uint, role domain.Role, sessionID string) (string, error) {
	return j.sign(userID, role, sessionID, tokenTypeAccess, j.generateJTI(), j.accessTokenTTL)
}

// GenerateRefreshToken implements domain.TokenService. The jti is
// returned so the session store can bind the token to the session.
func (j *JWTServiceImpl) GenerateRefreshToken(userID uint, role domain.Role, sessionID string) (string, string, error) {
	jti := j.generateJTI()
	token, err := j.sign(userID, role, sessionID, tokenTypeRefresh, jti, j.refreshTokenTTL)
	return token, jti, err
}

// ValidateAccessToken implements domain.TokenService.
func (j *JWTServiceImpl) ValidateAccessToken(tokenString string) (*domain.TokenClaims, error) {
	claims, err := j.validateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, domain.ErrTokenInvalidOrExpired
	}
	return claims, nil
}

// ValidateRefreshToken implements domain.TokenService.
func (j *JWTServiceImpl) ValidateRefreshToken(tokenString string) (*domain.TokenClaims, error) {
	claims, err := j.validateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, domain.ErrTokenInvalidOrExpired
	}
	return claims, nil
}

func (j *JWTServiceImpl) validateToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return j.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalidOrExpired
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	role, ok := domain.ParseRole(roleStr)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, domain.ErrTokenInvalidOrExpired
	}

	tokenClaims := &domain.TokenClaims{
		UserID:    uint(userID),
		Role:      role,
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}
	if sessionID, ok := claims["session_id"].(string); ok {
		tokenClaims.SessionID = sessionID
	}
	if tokenType, ok := claims["token_type"].(string); ok {
		tokenClaims.TokenType = tokenType
	}
	if jti, ok := claims["jti"].(string); ok {
		tokenClaims.JTI = jti
	}
	return tokenClaims, nil
}
