package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified payload of an externally issued credential. The
// matching core trusts this boundary: once the signature checks out, TMID
// is the participant identity and nothing is re-validated downstream.
type Claims struct {
	TMID        string `json:"tmId"`
	AccountType string `json:"accountType"`
	jwt.RegisteredClaims
}

// VerifyToken validates a JWT and extracts the claims. Only HMAC-signed
// tokens are accepted; anything else is rejected before signature
// verification.
func VerifyToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TMID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

type contextKey string

const claimsKey contextKey = "tmClaims"

// Authorize wraps handlers with Bearer-token verification and stores the
// resolved claims in the request context.
func Authorize(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "missing authorization header")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "invalid authorization format, expected: Bearer <token>")
				return
			}
			claims, err := VerifyToken(parts[1], secret)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the verified claims stored by Authorize, or nil when
// the request skipped the middleware.
func ClaimsFrom(r *http.Request) *Claims {
	claims, _ := r.Context().Value(claimsKey).(*Claims)
	return claims
}

// ParticipantID returns the authenticated TMID, or "" for unauthenticated
// requests.
func ParticipantID(r *http.Request) string {
	if claims := ClaimsFrom(r); claims != nil {
		return claims.TMID
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
