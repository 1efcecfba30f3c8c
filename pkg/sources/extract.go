package sources

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ExtractDomain reduces a URL or bare hostname to its registrable domain
// (eTLD+1), e.g. "https://ai.stanford.edu/blog/x" -> "stanford.edu" while
// "lilianweng.github.io" stays as is because github.io is a public suffix.
//
// It never fails: malformed input degrades to a lowercased, trimmed copy of
// the input so that classification of such values falls through to the
// "unknown domain" defaults instead of aborting a research run.
func ExtractDomain(raw string) string {
	s := strings.TrimSpace(raw)
	fallback := strings.ToLower(s)
	if s == "" {
		return fallback
	}

	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		if strings.Contains(s, "://") {
			return fallback
		}
		// bare hostnames ("arxiv.org/abs/1") parse as a path, retry as URL
		u, err = url.Parse("https://" + s)
		if err != nil || u.Hostname() == "" {
			return fallback
		}
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return fallback
	}

	// EffectiveTLDPlusOne mangles IP literals ("192.168.0.1" -> "0.1")
	// instead of erroring, keep them whole
	if net.ParseIP(host) != nil {
		return host
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// single labels and public suffixes themselves (e.g. "gov.uk")
		// have no eTLD+1; keep the host.
		return host
	}

	return etld1
}
