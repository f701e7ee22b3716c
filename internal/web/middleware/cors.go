package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// corsMaxAge is how long browsers may cache a preflight answer
const corsMaxAge = 24 * time.Hour

var (
	// corsMethods covers every route the API registers
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}

	// corsRequestHeaders are the headers browser clients send: JSON bodies,
	// bearer tokens for the admin routes and caller-chosen request IDs.
	corsRequestHeaders = []string{"Accept", "Content-Type", "Authorization", "X-Request-ID"}

	// corsExposedHeaders are the response headers scripts may read.
	corsExposedHeaders = []string{
		"X-Request-ID",
		"X-Cache",
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"X-RateLimit-Reset",
		"Retry-After",
	}
)

// originPolicy decides which browser origins may call the API
type originPolicy struct {
	any      bool
	exact    map[string]bool
	suffixes []string
}

// newOriginPolicy builds a policy from configured origins. No origins, or
// a "*" among them, allows every origin. "*.veda.example" allows the
// subdomains of veda.example but not veda.example itself.
func newOriginPolicy(origins []string) originPolicy {
	policy := originPolicy{exact: make(map[string]bool)}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "":
		case origin == "*":
			policy.any = true
		case strings.HasPrefix(origin, "*."):
			policy.suffixes = append(policy.suffixes, origin[1:])
		default:
			policy.exact[origin] = true
		}
	}
	if len(policy.exact) == 0 && len(policy.suffixes) == 0 {
		policy.any = true
	}
	return policy
}

func (p originPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.any || p.exact[origin] {
		return true
	}
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// CORS lets browser pages on origins call the API. With no origins every
// origin is allowed, which is what the frontend's development server needs.
//
// Allowed origins are echoed back rather than answered with "*" so caches
// keyed on Vary: Origin stay correct. Preflight requests are answered here
// and never reach the router; a preflight from a disallowed origin gets an
// empty 204, which browsers treat as a refusal.
func CORS(origins ...string) Middleware {
	policy := newOriginPolicy(origins)
	methods := strings.Join(corsMethods, ", ")
	requestHeaders := strings.Join(corsRequestHeaders, ", ")
	exposed := strings.Join(corsExposedHeaders, ", ")
	maxAge := strconv.Itoa(int(corsMaxAge / time.Second))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := policy.allows(origin)
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			h := w.Header()
			if allowed {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Expose-Headers", exposed)
				if preflight {
					h.Set("Access-Control-Allow-Methods", methods)
					h.Set("Access-Control-Allow-Headers", requestHeaders)
					h.Set("Access-Control-Max-Age", maxAge)
				}
			}

			if preflight {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
