package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"wordbook/internal/session"

	"go.uber.org/zap"
)

// Prefix is the path prefix routed to the auth service
const Prefix = "/api"

// New returns a handler forwarding Prefix requests to target with Prefix removed
func New(target string, logger *zap.Logger) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target %q: %w", target, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy target %q: scheme and host required", target)
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(u)
			r.Out.URL.Path = singleJoin(u.Path, stripPrefix(r.In.URL.Path))
			r.Out.URL.RawPath = ""
			// SetURL cleared Out.Host, so the target host is sent
			if email := r.In.Header.Get(session.EmailHeader); email != "" {
				r.Out.Header.Set(session.EmailHeader, email)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("Proxy request failed",
				zap.Error(err),
				zap.String("url", r.URL.String()),
			)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return rp, nil
}

func stripPrefix(path string) string {
	rest := strings.TrimPrefix(path, Prefix)
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return rest
}

func singleJoin(base, path string) string {
	switch {
	case base == "" || base == "/":
		return path
	case strings.HasSuffix(base, "/") && strings.HasPrefix(path, "/"):
		return base + path[1:]
	default:
		return base + path
	}
}
