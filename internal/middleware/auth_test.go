package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func principalEcho(t *testing.T, got **domain.Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = domain.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestWithPrincipal(t *testing.T) {
	auth := NewAuthenticator(testSecret, "stitchwork-identity")
	valid, err := auth.Sign("user-42", domain.RoleDesigner, time.Hour)
	require.NoError(t, err)

	expired, err := auth.Sign("user-42", domain.RoleCustomer, -time.Minute)
	require.NoError(t, err)

	wrongIssuer, err := NewAuthenticator(testSecret, "someone-else").Sign("user-42", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
		wantRole   string
	}{
		{name: "anonymous", wantStatus: http.StatusOK},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantUser: "user-42", wantRole: domain.RoleDesigner},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong issuer", header: "Bearer " + wrongIssuer, wantStatus: http.StatusUnauthorized},
		{name: "unsigned token", header: "Bearer " + noneAlg, wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *domain.Principal
			h := WithPrincipal(auth)(principalEcho(t, &got))

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantUser == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantUser, got.UserID)
			assert.Equal(t, tt.wantRole, got.Role)
		})
	}
}

func TestVerify_DefaultsToCustomerRole(t *testing.T) {
	auth := NewAuthenticator(testSecret, "")
	token, err := auth.Sign("user-1", "", time.Hour)
	require.NoError(t, err)

	p, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, p.Role)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name       string
		principal  *domain.Principal
		wantStatus int
	}{
		{name: "anonymous", wantStatus: http.StatusUnauthorized},
		{name: "customer", principal: &domain.Principal{UserID: "u", Role: domain.RoleCustomer}, wantStatus: http.StatusForbidden},
		{name: "admin", principal: &domain.Principal{UserID: "u", Role: domain.RoleAdmin}, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
			if tt.principal != nil {
				req = req.WithContext(domain.NewContextWithPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()

			RequireAdmin(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	RequireAuth(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.EUNAUTHORIZED)
}
