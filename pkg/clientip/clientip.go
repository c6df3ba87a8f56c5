// Package clientip resolves the originating client address of a request.
//
// Forwarding headers are only honored when the direct peer is a configured
// trusted proxy. Otherwise the peer address is the client.
package clientip

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

var ErrInvalidProxy = errors.New("clientip: invalid trusted proxy")

// Config lists the proxies allowed to set X-Forwarded-For and X-Real-IP.
// Entries are IPs or CIDR prefixes.
type Config struct {
	TrustedProxies []string `env:"CLIENTIP_TRUSTED_PROXIES" envSeparator:","`
}

// Resolver extracts client IPs, trusting forwarding headers from known proxies only.
type Resolver struct {
	trusted []netip.Prefix
}

// New parses cfg. An empty list trusts no proxy.
func New(cfg Config) (*Resolver, error) {
	r := &Resolver{}
	for _, raw := range cfg.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidProxy, raw, err)
			}
			r.trusted = append(r.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidProxy, raw, err)
		}
		addr = addr.Unmap()
		r.trusted = append(r.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return r, nil
}

var defaultResolver = &Resolver{}

// FromRequest returns the peer address of r, ignoring forwarding headers.
func FromRequest(r *http.Request) string {
	return defaultResolver.FromRequest(r)
}

// FromRequest returns the client IP, or an empty string when nothing
// parses. When the peer is trusted, X-Forwarded-For is walked from the
// right and the first untrusted hop wins. X-Real-IP is used only without
// X-Forwarded-For.
func (res *Resolver) FromRequest(r *http.Request) string {
	peer, ok := parse(remoteHost(r.RemoteAddr))
	if !ok {
		return ""
	}
	if !res.isTrusted(peer) {
		return peer.String()
	}

	if fwd := r.Header.Values("X-Forwarded-For"); len(fwd) > 0 {
		hops := strings.Split(strings.Join(fwd, ","), ",")
		client := peer
		for i := len(hops) - 1; i >= 0; i-- {
			hop, ok := parse(hops[i])
			if !ok {
				break
			}
			client = hop
			if !res.isTrusted(hop) {
				break
			}
		}
		return client.String()
	}

	if ip, ok := parse(r.Header.Get("X-Real-IP")); ok {
		return ip.String()
	}
	return peer.String()
}

func (res *Resolver) isTrusted(addr netip.Addr) bool {
	for _, p := range res.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func parse(s string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

type contextKey struct{}

// Middleware stores the peer address in the request context.
func Middleware(next http.Handler) http.Handler {
	return defaultResolver.Middleware(next)
}

// Middleware stores the resolved IP in the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), contextKey{}, res.FromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the IP stored by Middleware, or an empty string.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}
