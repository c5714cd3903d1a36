package handler

import (
	"context"
	"net/http"

	"github.com/nkarpov/timebox-api/pkg/respond"
)

// Имя сессионной куки; значением служит голый id пользователя
const sessionCookie = "auth-token"

type ctxKey int

const userIDKey ctxKey = iota

// Auth требует сессионную куку и кладет id пользователя в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil || c.Value == "" {
			respond.Error(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, c.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
