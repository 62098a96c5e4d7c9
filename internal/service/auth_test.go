package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gocollective/collective-server/internal/domain"
)

type mockUserLoader struct {
	users map[int64]domain.Actor
}

func (m *mockUserLoader) GetUser(ctx context.Context, id int64) (domain.Actor, error) {
	if actor, ok := m.users[id]; ok {
		return actor, nil
	}
	return domain.Actor{}, domain.NotFoundError{Resource: "user"}
}

func signToken(t *testing.T, secret []byte, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return signed
}

func TestAuthJwt(t *testing.T) {
	secret := []byte("test-secret")
	users := &mockUserLoader{users: map[int64]domain.Actor{
		1: {ID: 1, CollectiveID: 99, Email: "u1@example.com"},
	}}
	svc := NewAuthService(secret, users)

	actor, err := svc.AuthJwt(context.Background(), signToken(t, secret, "1"))
	if err != nil {
		t.Fatalf("auth failed: %v", err)
	}
	if actor.ID != 1 || actor.Email != "u1@example.com" {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestAuthJwtBadSignature(t *testing.T) {
	users := &mockUserLoader{users: map[int64]domain.Actor{1: {ID: 1}}}
	svc := NewAuthService([]byte("right-secret"), users)

	_, err := svc.AuthJwt(context.Background(), signToken(t, []byte("wrong-secret"), "1"))
	if err == nil {
		t.Fatalf("expected signature rejection")
	}
}

func TestAuthJwtUnknownUser(t *testing.T) {
	secret := []byte("test-secret")
	svc := NewAuthService(secret, &mockUserLoader{users: map[int64]domain.Actor{}})

	_, err := svc.AuthJwt(context.Background(), signToken(t, secret, "42"))
	if err == nil {
		t.Fatalf("expected lookup failure")
	}
}
