// Package clientip resolves the address of the client behind a request.
//
// Forwarding headers are only believed when the direct peer is a configured
// proxy; anyone else could set them to any value.
package clientip

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Config lists the proxies allowed to report the client address.
type Config struct {
	// TrustedProxies holds CIDRs or single addresses, e.g. "10.0.0.0/8,127.0.0.1".
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// Resolver picks the client address for a request. The zero value and a
// nil *Resolver trust no proxy and always return the peer address.
type Resolver struct {
	trusted []netip.Prefix
}

// New creates a resolver trusting the given CIDRs or addresses.
func New(trusted ...string) (*Resolver, error) {
	res := &Resolver{}
	for _, s := range trusted {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "/") {
			addr, err := netip.ParseAddr(s)
			if err != nil {
				return nil, fmt.Errorf("clientip: invalid trusted proxy %q: %w", s, err)
			}
			addr = addr.Unmap()
			res.trusted = append(res.trusted, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return nil, fmt.Errorf("clientip: invalid trusted proxy %q: %w", s, err)
		}
		res.trusted = append(res.trusted, prefix.Masked())
	}
	return res, nil
}

// NewFromConfig creates a resolver from cfg.
func NewFromConfig(cfg Config) (*Resolver, error) {
	return New(cfg.TrustedProxies...)
}

// GetIP returns the peer address of r and ignores forwarding headers.
func GetIP(r *http.Request) string {
	return (*Resolver)(nil).GetIP(r)
}

// GetIP returns the client address of r. Headers are consulted only when
// the peer is trusted: CF-Connecting-IP and DO-Connecting-IP first, then
// X-Forwarded-For read from the right skipping trusted hops, then
// X-Real-IP.
func (res *Resolver) GetIP(r *http.Request) string {
	peer, ok := peerAddr(r.RemoteAddr)
	if !ok {
		return r.RemoteAddr
	}
	if !res.trusts(peer) {
		return peer.String()
	}

	for _, h := range []string{"CF-Connecting-IP", "DO-Connecting-IP"} {
		if addr, ok := parse(r.Header.Get(h)); ok {
			return addr.String()
		}
	}
	if addr, ok := res.forwarded(r.Header.Values("X-Forwarded-For")); ok {
		return addr.String()
	}
	if addr, ok := parse(r.Header.Get("X-Real-IP")); ok {
		return addr.String()
	}
	return peer.String()
}

func (res *Resolver) trusts(addr netip.Addr) bool {
	if res == nil {
		return false
	}
	for _, p := range res.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// forwarded returns the rightmost hop that is not one of our proxies.
func (res *Resolver) forwarded(values []string) (netip.Addr, bool) {
	hops := strings.Split(strings.Join(values, ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		addr, ok := parse(hops[i])
		if !ok {
			return netip.Addr{}, false
		}
		if !res.trusts(addr) {
			return addr, true
		}
	}
	return netip.Addr{}, false
}

func peerAddr(remote string) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	return parse(host)
}

func parse(s string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, false
	}
	addr = addr.Unmap()
	if addr.IsUnspecified() {
		return netip.Addr{}, false
	}
	return addr, true
}
