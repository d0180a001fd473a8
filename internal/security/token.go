package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// UserClaims defines the claims issued by the identity service. The rental
// engine only reads them; it never mints customer tokens itself.
type UserClaims struct {
	UserID int32       `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager is the Authorization Guard: it resolves a bearer token into
// the caller identity every mutating operation is checked against.
type TokenManager interface {
	GenerateToken(userID int32, role domain.Role, ttl time.Duration) (string, error)
	ResolveCaller(tokenString string) (domain.Caller, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{secret: []byte(secret)}
}

func (m *tokenManager) GenerateToken(userID int32, role domain.Role, ttl time.Duration) (string, error) {
	claims := UserClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "ecolith-swap",
			ID:        strconv.FormatInt(time.Now().UnixNano(), 16),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ResolveCaller(tokenString string) (domain.Caller, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Caller{}, ErrExpiredToken
		}
		return domain.Caller{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return domain.Caller{}, ErrInvalidToken
	}

	// Fall back to the subject when user_id was not set by the issuer.
	if claims.UserID == 0 && claims.Subject != "" {
		uid, _ := strconv.Atoi(claims.Subject)
		claims.UserID = int32(uid)
	}

	role := claims.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	return domain.Caller{UserID: claims.UserID, Role: role}, nil
}
