package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/xy-planning-network/compass"
)

// unknownIP stands in for a visitor whose address cannot be found.
const unknownIP = "0.0.0.0"

// nonPublic are the IPv4 ranges, besides those net.IP.IsPrivate reports,
// which are not routed on the public internet.
var nonPublic = parseCIDRs("100.64.0.0/10", "192.0.0.0/24", "198.18.0.0/15")

// InjectIPAddress promotes the address of the visitor found by VisitorIP
// to *http.Request.Context under compass.IpAddrKey.
func InjectIPAddress() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.Clone(context.WithValue(r.Context(), compass.IpAddrKey, VisitorIP(r)))
			h.ServeHTTP(w, r)
		})
	}
}

// VisitorIP finds the address r was sent from.
//
// Behind a proxy, that is the rightmost public address in "X-Forwarded-For", then in "X-Real-Ip".
// Otherwise, it is the host of r.RemoteAddr, or "0.0.0.0" when neither holds an address.
func VisitorIP(r *http.Request) string {
	if ip := forwardedIP(r.Header); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if net.ParseIP(host) == nil {
		return unknownIP
	}

	return host
}

func forwardedIP(hm http.Header) string {
	for _, key := range []string{"X-Forwarded-For", "X-Real-Ip"} {
		addrs := strings.Split(hm.Get(key), ",")
		// The proxy appends the address it saw last.
		for i := len(addrs) - 1; i >= 0; i-- {
			ip := strings.TrimSpace(addrs[i])
			if isPublic(net.ParseIP(ip)) {
				return ip
			}
		}
	}

	return ""
}

func isPublic(ip net.IP) bool {
	if !ip.IsGlobalUnicast() || ip.IsPrivate() {
		return false
	}

	for _, n := range nonPublic {
		if n.Contains(ip) {
			return false
		}
	}

	return true
}

func parseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}

	return nets
}
