package router

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// localOnly guards an unauthenticated control API. The Host header must
// name a loopback address, which defeats DNS rebinding, and a browser
// Origin must be loopback or listed in allowedOrigins.
func localOnly(allowedOrigins []string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !isLoopbackHost(req.Host) {
				return echo.NewHTTPError(http.StatusForbidden, "host not allowed without API_KEY")
			}
			if origin := req.Header.Get(echo.HeaderOrigin); origin != "" && !allowed[origin] && !isLoopbackOrigin(origin) {
				return echo.NewHTTPError(http.StatusForbidden, "origin not allowed without API_KEY")
			}
			return next(c)
		}
	}
}

func isLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return isLoopbackHost(u.Host)
}

// isLoopbackHost accepts "host" or "host:port" naming localhost or a
// loopback IP.
func isLoopbackHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
