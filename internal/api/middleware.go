package api

import (
	"context"
	"net/http"
	"time"

	"svgshare/internal/auth"
	"svgshare/internal/models"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	userContextKey    = contextKey("user")
	requestContextKey = contextKey("request")
)

// requestInfo lets inner middleware report back to the request logger.
type requestInfo struct {
	userID int64
}

func (s *Server) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		info := &requestInfo{}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestContextKey, info)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := logrus.Fields{
			"status":     status,
			"method":     r.Method,
			"path":       r.URL.Path,
			"route":      routePattern(r),
			"latency":    time.Since(start),
			"ip":         r.RemoteAddr,
			"request_id": middleware.GetReqID(r.Context()),
		}
		if info.userID != 0 {
			fields["user_id"] = info.userID
		}

		entry := s.logger.WithFields(fields)
		if status >= http.StatusInternalServerError {
			entry.Error("request processed")
		} else {
			entry.Info("request processed")
		}
	})
}

// SessionMiddleware resolves the session cookie to a user. Requests without a
// valid session, or whose user no longer exists, get 401.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.SessionFromRequest(r, s.cookie, s.config.Session.Secret)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := s.store.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", claims.UserID).Error("failed to load session user")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if info, ok := r.Context().Value(requestContextKey).(*requestInfo); ok {
			info.userID = user.ID
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const (
	msgAccountLocked  = "Account locked"
	msgAccountPending = "Account pending approval"
)

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// statusDenial returns the reason user may not perform method, or "".
func statusDenial(user *models.User, method string) string {
	switch user.Status {
	case models.StatusActive:
		return ""
	case models.StatusPending:
		if isWriteMethod(method) {
			return msgAccountPending
		}
		return ""
	default:
		return msgAccountLocked
	}
}

// StatusMiddleware blocks locked accounts entirely and pending accounts from
// anything but reads.
func (s *Server) StatusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if reason := statusDenial(user, r.Method); reason != "" {
			http.Error(w, reason, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || !user.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}
