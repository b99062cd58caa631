package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	userpb "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user"
	"google.golang.org/grpc/codes"

	"github.com/ragnaraven/zitadel-go-dual/internal/directory"
	"github.com/ragnaraven/zitadel-go-dual/internal/observability"
	"github.com/ragnaraven/zitadel-go-dual/pkg/interceptor"
	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
	"github.com/ragnaraven/zitadel-go-dual/pkg/zitadel/user"
)

// SearchLimit caps /users/search results.
const SearchLimit = 20

// Profile is the public view of the calling user.
type Profile struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName,omitempty"`
	Email             string `json:"email,omitempty"`
	EmailVerified     bool   `json:"emailVerified,omitempty"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}

// UserSummary is one row of a user search.
type UserSummary struct {
	ID          string `json:"id"`
	UserName    string `json:"userName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	State       string `json:"state,omitempty"`
}

// Handler exposes a Service over HTTP.
type Handler struct {
	svc     *Service
	health  *observability.HealthServer
	metrics *observability.Metrics
	reg     *prometheus.Registry
	logger  *slog.Logger
}

// NewHandler wires the routes. reg serves /metrics and receives the HTTP
// metrics; it may be nil to disable both.
func NewHandler(svc *Service, health *observability.HealthServer, reg *prometheus.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{svc: svc, health: health, reg: reg, logger: logger}
	if reg != nil {
		h.metrics = observability.NewMetrics(reg)
	}
	return h
}

// Routes returns the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(h.metricsMiddleware)

	r.Get("/profile", h.handleProfile)
	r.Get("/users/search", h.handleSearchUsers)
	r.Get("/healthz", h.health.Healthz)
	r.Get("/readyz", h.health.Readyz)
	if h.reg != nil {
		r.Method(http.MethodGet, "/metrics", observability.MetricsHandler(h.reg))
	}
	return r
}

// requestIDMiddleware adopts the caller's X-Request-Id, or mints one, and
// forwards it on every ZITADEL call made for the request.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(rpc.HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(rpc.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(interceptor.ContextWithRequestID(r.Context(), id)))
	})
}

func (h *Handler) metricsMiddleware(next http.Handler) http.Handler {
	if h.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		h.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		h.writeError(w, r, ErrUnauthorized)
		return
	}
	u, err := h.svc.CurrentUser(r.Context(), token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	human := u.GetHuman()
	writeJSON(w, http.StatusOK, Profile{
		ID:                u.GetId(),
		DisplayName:       user.DisplayName(u),
		Email:             human.GetEmail().GetEmail(),
		EmailVerified:     human.GetEmail().GetIsEmailVerified(),
		PreferredLanguage: human.GetProfile().GetPreferredLanguage(),
	})
}

func (h *Handler) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter q is required"})
		return
	}
	users, err := h.svc.SearchUsers(r.Context(), directory.UserFilter{
		Email:       q,
		DisplayName: q,
		State:       userpb.UserState_USER_STATE_ACTIVE,
		Limit:       SearchLimit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{
			ID:          u.GetId(),
			UserName:    u.GetUserName(),
			DisplayName: user.DisplayName(u),
			State:       u.GetState().String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// statusFor maps service and ZITADEL errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, directory.ErrUserNotFound):
		return http.StatusNotFound
	}
	switch rpc.Code(err) {
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := http.StatusText(status)
	if status == http.StatusUnauthorized {
		msg = ErrUnauthorized.Error()
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
