package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims(tmID string) Claims {
	return Claims{
		TMID:        tmID,
		AccountType: "personal",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifyToken(t *testing.T) {
	token := signToken(t, validClaims("user-1"), testSecret)
	claims, err := VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.TMID != "user-1" || claims.AccountType != "personal" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyTokenRejects(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, validClaims("user-1"), "other-secret")
		if _, err := VerifyToken(token, testSecret); err == nil {
			t.Error("token signed with other secret accepted")
		}
	})
	t.Run("expired", func(t *testing.T) {
		claims := validClaims("user-1")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		token := signToken(t, claims, testSecret)
		if _, err := VerifyToken(token, testSecret); err == nil {
			t.Error("expired token accepted")
		}
	})
	t.Run("missing identity", func(t *testing.T) {
		token := signToken(t, validClaims(""), testSecret)
		if _, err := VerifyToken(token, testSecret); err == nil {
			t.Error("token without tmId accepted")
		}
	})
	t.Run("unsigned alg", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims("user-1"))
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := VerifyToken(signed, testSecret); err == nil {
			t.Error("alg=none token accepted")
		}
	})
	t.Run("garbage", func(t *testing.T) {
		if _, err := VerifyToken("not.a.token", testSecret); err == nil {
			t.Error("garbage token accepted")
		}
	})
}

func TestAuthorizeMiddleware(t *testing.T) {
	var gotID string
	handler := Authorize(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = ParticipantID(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer token", func(t *testing.T) {
		gotID = ""
		req := httptest.NewRequest(http.MethodGet, "/api/tm/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("user-1"), testSecret))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if gotID != "user-1" {
			t.Errorf("ParticipantID = %q", gotID)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tm/me", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tm/me", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tm/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("user-1"), "other-secret"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestParticipantIDWithoutClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ParticipantID(req); got != "" {
		t.Errorf("ParticipantID = %q, want empty", got)
	}
	if ClaimsFrom(req) != nil {
		t.Error("ClaimsFrom returned claims on a bare request")
	}
}
