package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// Logging attaches logger to every request context together with a request
// id and the client address, and writes one access log line per request.
// Handlers log through hlog.FromRequest.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := hlog.AccessHandler(accessLog)(next)
		h = hlog.RemoteAddrHandler("remote_addr")(h)
		h = hlog.RequestIDHandler("request_id", RequestIDHeader)(h)
		return hlog.NewHandler(logger)(h)
	}
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	logger := hlog.FromRequest(r)

	var event *zerolog.Event
	switch {
	case status >= http.StatusInternalServerError:
		event = logger.Error()
	case status >= http.StatusBadRequest:
		event = logger.Warn()
	default:
		event = logger.Info()
	}

	event.
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request completed")
}
