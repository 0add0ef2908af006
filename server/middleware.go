// Admin auth, per-IP rate limiting, and CORS. All settings come from
// config.Config; nothing in this file reads the environment.
package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/callarchive/callarchive/config"
)

// adminGuard authenticates the admin surface with a shared token
// (X-Admin-Token header) or Basic credentials. With no credential configured
// it passes everything through; main warns about that state at startup.
type adminGuard struct {
	user  string
	pass  string
	token string
}

func newAdminGuard(cfg *config.Config) *adminGuard {
	return &adminGuard{user: cfg.AdminUser, pass: cfg.AdminPass, token: cfg.AdminToken}
}

func (g *adminGuard) enabled() bool {
	return g.token != "" || (g.user != "" && g.pass != "")
}

func (g *adminGuard) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.enabled() {
			next.ServeHTTP(w, r)
			return
		}
		if g.token != "" {
			if t := r.Header.Get("X-Admin-Token"); t != "" && subtle.ConstantTimeCompare([]byte(t), []byte(g.token)) == 1 {
				next.ServeHTTP(w, r)
				return
			}
		}
		if g.user != "" && g.pass != "" {
			if user, pass, ok := r.BasicAuth(); ok {
				userOK := subtle.ConstantTimeCompare([]byte(user), []byte(g.user)) == 1
				passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(g.pass)) == 1
				if userOK && passOK {
					next.ServeHTTP(w, r)
					return
				}
			}
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="callarchive admin"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		slog.Warn("admin auth failed", slog.String("path", r.URL.Path), slog.String("remote_addr", r.RemoteAddr))
	})
}

// rateLimiter counts requests per client IP in fixed windows. The admin
// surface is the only caller, so a coarse counter is enough.
type rateLimiter struct {
	enabled bool
	perIP   int
	window  time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count int
	start time.Time
}

func newRateLimiter(ctx context.Context, cfg *config.Config) *rateLimiter {
	rl := &rateLimiter{
		enabled: cfg.RateLimitEnabled,
		perIP:   cfg.RateLimitPerIP,
		window:  cfg.RateLimitWindow,
		buckets: make(map[string]*bucket),
	}
	if rl.window <= 0 {
		rl.window = time.Minute
	}
	if rl.enabled {
		go rl.sweep(ctx)
	}
	return rl
}

// sweep drops buckets whose window has long expired so idle IPs do not
// accumulate.
func (rl *rateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if now.Sub(b.start) > 2*rl.window {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	if !rl.enabled {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()
	b, ok := rl.buckets[ip]
	if !ok || now.Sub(b.start) >= rl.window {
		rl.buckets[ip] = &bucket{count: 1, start: now}
		return true
	}
	if b.count >= rl.perIP {
		return false
	}
	b.count++
	return true
}

func (rl *rateLimiter) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.allow(ip) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			http.Error(w, "Too Many Requests - rate limit exceeded", http.StatusTooManyRequests)
			slog.Warn("rate limit exceeded", slog.String("ip", ip), slog.String("path", r.URL.Path))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop (the client as seen by the
// outermost proxy), falling back to the connection peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// corsPolicy decides which browser origins may call the API. Permissive mode
// allows everything; restricted mode echoes only configured origins, with
// *.domain wildcards for subdomains.
type corsPolicy struct {
	permissive bool
	origins    []string
}

func newCORSPolicy(cfg *config.Config) *corsPolicy {
	p := &corsPolicy{permissive: cfg.CORSPermissive, origins: cfg.CORSOrigins}
	if !p.permissive && len(p.origins) == 0 {
		slog.Warn("CORS restricted mode with no CORS_ALLOWED_ORIGINS configured - all cross-origin requests will be blocked")
	}
	return p
}

func (p *corsPolicy) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case p.permissive:
			w.Header().Set("Access-Control-Allow-Origin", "*")
			setCORSHeaders(w)
		case origin != "" && p.originAllowed(origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			setCORSHeaders(w)
		}

		// Preflight requests stop here.
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Token, X-Correlation-ID")
}

func (p *corsPolicy) originAllowed(origin string) bool {
	for _, allowed := range p.origins {
		if origin == allowed {
			return true
		}
		if domain, ok := strings.CutPrefix(allowed, "*."); ok {
			if strings.HasSuffix(origin, "."+domain) || origin == "https://"+domain || origin == "http://"+domain {
				return true
			}
		}
	}
	return false
}
