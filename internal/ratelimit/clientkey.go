package ratelimit

import "strings"

// ClientKey derives the throttling identity of a request: the first entry of
// the X-Forwarded-For header when present and non-empty, otherwise the
// transport-level peer address. The same derivation must be used at every
// integration point so all classes throttle the same identity.
//
// The forwarded header is client-supplied and trusted unconditionally, which
// is spoofable unless a trusted-proxy allowlist terminates in front of this
// service. Known limitation, preserved deliberately.
func ClientKey(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}
	return remoteAddr
}
