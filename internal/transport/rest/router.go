// Package rest exposes the timezone channel as a plain HTTP endpoint.
package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/osa030/schelper/internal/channel"
	zlog "github.com/rs/zerolog/log"
)

const (
	msgNotFound         = "not found"
	msgMethodNotAllowed = "method not allowed"
	msgNotImplemented   = "not implemented: %s"
)

type Router struct {
	channel *channel.Channel
}

func NewRouter(ch *channel.Channel) *Router {
	return &Router{channel: ch}
}

// SetupRoutes registers GET /timezone and the JSON not-found and
// method-not-allowed responses.
func (rt *Router) SetupRoutes(router chi.Router) {
	router.Get("/timezone", rt.getTimeZone)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WithError(w, http.StatusNotFound, msgNotFound)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WithError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})
}

func (rt *Router) getTimeZone(w http.ResponseWriter, r *http.Request) {
	result := rt.channel.Dispatch(r.Context(), channel.Call{Method: string(channel.MethodGetTimeZone)})

	switch res := result.(type) {
	case channel.Success:
		WithJSON(w, http.StatusOK, TimezoneResponse{Timezone: fmt.Sprint(res.Value)})
	case channel.Failure:
		WithError(w, http.StatusInternalServerError, res.Message)
	case channel.NotImplemented:
		WithError(w, http.StatusNotImplemented, fmt.Sprintf(msgNotImplemented, res.Method))
	default:
		WithError(w, http.StatusInternalServerError, fmt.Sprintf("unexpected result %T", result))
	}
}

// RequestLogger logs every request once it has been served.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			zlog.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		}()

		next.ServeHTTP(ww, r)
	})
}
