package services

import (
	"fmt"
	"time"

	"homecraft-backend/errors"

	"github.com/golang-jwt/jwt/v4"
)

// Token lifetimes per realm. Admin sessions are deliberately short-lived;
// there is no refresh flow, so expiry forces re-authentication.
const (
	customerTokenTTL = 7 * 24 * time.Hour
	adminTokenTTL    = time.Hour
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// TokenService issues and validates bearer tokens for both credential
// realms. The realms share one signing secret and one validator; the
// embedded role claim is what keeps them disjoint.
type TokenService struct {
	secretKey []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secretKey: []byte(secret)}
}

// GenerateCustomerToken issues a long-lived token for the customer realm.
func (s *TokenService) GenerateCustomerToken(customerID string) (string, error) {
	return s.generateToken(customerID, RoleCustomer, customerTokenTTL)
}

// GenerateAdminToken issues a short-lived token for the admin realm.
func (s *TokenService) GenerateAdminToken(adminID string) (string, error) {
	return s.generateToken(adminID, RoleAdmin, adminTokenTTL)
}

// ValidateToken parses a token and returns its claims. The caller
// dispatches the principal lookup on the "role" claim.
func (s *TokenService) ValidateToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, errors.Wrap(errors.ErrTokenExpired, err)
		}
		return nil, errors.Wrap(errors.ErrInvalidToken, err)
	}
	if token == nil || !token.Valid {
		return nil, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) generateToken(subject, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}
