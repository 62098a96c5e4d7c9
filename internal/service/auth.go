package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/gocollective/collective-server/internal/domain"
)

var tracer = otel.Tracer("auth")

// UserLoader resolves a user id to the acting user.
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (domain.Actor, error)
}

type AuthService struct {
	secret []byte
	users  UserLoader
}

func NewAuthService(secret []byte, users UserLoader) *AuthService {
	return &AuthService{
		secret: secret,
		users:  users,
	}
}

// AuthJwt validates a bearer token and loads the actor it names.
func (s *AuthService) AuthJwt(ctx context.Context, token string) (*domain.Actor, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.AuthJwt")
	defer span.End()

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		span.RecordError(errors.Wrap(err, "jwt validation failed"))
		return nil, err
	}
	if !parsed.Valid {
		err := fmt.Errorf("invalid token")
		span.RecordError(err)
		return nil, err
	}

	subject, err := claims.GetSubject()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		err := fmt.Errorf("invalid subject %q", subject)
		span.RecordError(err)
		return nil, err
	}

	actor, err := s.users.GetUser(ctx, userID)
	if err != nil {
		span.RecordError(errors.Wrap(err, "user lookup failed"))
		return nil, err
	}

	return &actor, nil
}
