package lib

import (
	"net/url"
	"strings"

	"github.com/gravitational/trace"
)

// AddrToURL turns an address into an API base URL. Addresses without a
// scheme are assumed to be HTTPS.
func AddrToURL(addr string) (*url.URL, error) {
	var (
		result *url.URL
		err    error
	)
	addr = strings.TrimSpace(addr)
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "https://" + addr
	}
	if result, err = url.Parse(addr); err != nil {
		return nil, trace.Wrap(err)
	}
	if result.Host == "" {
		return nil, trace.BadParameter("address %q has no host", addr)
	}
	if result.Scheme == "https" && result.Port() == "443" {
		// Cut off redundant :443
		result.Host = result.Hostname()
	}
	if result.Scheme == "http" && result.Port() == "80" {
		result.Host = result.Hostname()
	}
	return result, nil
}
