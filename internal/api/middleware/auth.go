// Package middleware HTTP middleware сервиса
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/MediLog-SchedulingService/internal/api/handlers"
	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgMissingIdentity = "отсутствует идентификатор пользователя"
	msgInvalidIdentity = "некорректный идентификатор или роль пользователя"
)

type actorKey struct{}

// Auth превращает заголовки шлюза X-User-ID и X-User-Role в domain.Actor в контексте запроса.
// Подлинность заголовков проверяет шлюз
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(HeaderUserID)
		rawRole := r.Header.Get(HeaderUserRole)
		if rawID == "" || rawRole == "" {
			handlers.RespondUnauthorized(w, msgMissingIdentity)
			return
		}

		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || id <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidIdentity)
			return
		}

		role, ok := domain.ParseRole(rawRole)
		if !ok {
			handlers.RespondUnauthorized(w, msgInvalidIdentity)
			return
		}

		ctx := WithActor(r.Context(), domain.Actor{ParticipantID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithActor кладет актора в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor актор запроса, выставленный Auth
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
