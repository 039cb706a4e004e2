package domain

import (
	"context"
	"testing"
)

func TestPrincipalContext(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		ctx := context.Background()
		if p := PrincipalFromContext(ctx); p != nil {
			t.Errorf("expected nil principal, got %+v", p)
		}
		if id := UserIDFromContext(ctx); id != "" {
			t.Errorf("expected empty user id, got %q", id)
		}
		if IsAdmin(ctx) {
			t.Error("expected IsAdmin false")
		}
	})

	t.Run("customer", func(t *testing.T) {
		ctx := NewContextWithPrincipal(context.Background(), &Principal{UserID: "user_1", Role: RoleCustomer})
		if id := UserIDFromContext(ctx); id != "user_1" {
			t.Errorf("expected user_1, got %q", id)
		}
		if IsAdmin(ctx) {
			t.Error("customer must not be admin")
		}
	})

	t.Run("admin", func(t *testing.T) {
		ctx := NewContextWithPrincipal(context.Background(), &Principal{UserID: "ops", Role: RoleAdmin})
		if !IsAdmin(ctx) {
			t.Error("expected IsAdmin true")
		}
	})
}
