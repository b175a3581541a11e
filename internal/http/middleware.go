package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	sessionKey   contextKey = "session"

	// Set by the auth proxy in front of the storefront.
	userIDHeader    = "X-User-ID"
	userEmailHeader = "X-User-Email"

	guestCookieName = "guest_session"
	guestCookieTTL  = 30 * 24 * time.Hour
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionMiddleware resolves the shopper for the request. Anonymous visitors get a guest cookie on
// their first request so their cart survives until they sign in.
func SessionMiddleware(secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := domain.Session{
				UserID: strings.TrimSpace(r.Header.Get(userIDHeader)),
			}
			if sess.UserID != "" {
				sess.Email = strings.TrimSpace(r.Header.Get(userEmailHeader))
			}

			if c, err := r.Cookie(guestCookieName); err == nil && validGuestID(c.Value) {
				sess.GuestID = c.Value
			} else {
				sess.GuestID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     guestCookieName,
					Value:    sess.GuestID,
					Path:     "/",
					MaxAge:   int(guestCookieTTL.Seconds()),
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validGuestID(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}

func sessionFromContext(ctx context.Context) domain.Session {
	if sess, ok := ctx.Value(sessionKey).(domain.Session); ok {
		return sess
	}
	return domain.Session{}
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
