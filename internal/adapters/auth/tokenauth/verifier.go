// Package tokenauth implementa auth.AuthVerifier verificando JWT firmados
// localmente (HS256). El servicio de cuentas emite los tokens; acá solo se
// validan firma y expiración y se extraen los claims de dominio.
package tokenauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"dog-blood-donation/internal/ports/auth"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrNoSigningKey = errors.New("signing key not configured")
)

type tokenClaims struct {
	Role     string `json:"role"`
	ClinicID string `json:"clinic_id,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	key []byte
}

func NewVerifier(signingKey string) *Verifier {
	return &Verifier{key: []byte(signingKey)}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.key) == 0 {
		return auth.Claims{}, ErrNoSigningKey
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, ErrTokenInvalid
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return auth.Claims{
		UserID:   userID,
		Email:    strings.TrimSpace(claims.Email),
		Role:     auth.Role(strings.TrimSpace(claims.Role)),
		ClinicID: strings.TrimSpace(claims.ClinicID),
	}, nil
}
