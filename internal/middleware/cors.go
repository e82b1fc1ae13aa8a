package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/config"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/utils"
)

type Middleware struct {
	Config       *config.Config
	rateLimiters sync.Map
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{Config: cfg}
}

// CORS lets the browser UI call the API from a different origin. The viewer
// itself is unauthenticated, so this is the only request gate besides the
// rate limiter.
func (m *Middleware) CORS(next http.Handler) http.Handler {
	allowed := m.Config.AllowedOrigins
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin, allowed) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(allowed) == 1 && allowed[0] == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true // non-browser clients
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// RateLimitMiddleware caps each client IP at 120 requests per minute. One
// rate.Limiter per IP lives in the sync.Map; the limiter carries its own
// locking, so concurrent requests from one IP are safe.
func (m *Middleware) RateLimitMiddleware(next http.Handler) http.Handler {
	const requestsPerMinute = 120

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := strings.Split(r.RemoteAddr, ":")[0]

		val, _ := m.rateLimiters.LoadOrStore(ip,
			rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), requestsPerMinute))
		lim := val.(*rate.Limiter)

		if !lim.Allow() {
			utils.ErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
