package httpapi

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// accessRecorder captures what a handler wrote for the access log.
type accessRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (a *accessRecorder) WriteHeader(code int) {
	if a.status == 0 {
		a.status = code
	}
	a.ResponseWriter.WriteHeader(code)
}

func (a *accessRecorder) Write(p []byte) (int, error) {
	if a.status == 0 {
		a.status = http.StatusOK
	}
	n, err := a.ResponseWriter.Write(p)
	a.size += n
	return n, err
}

// Hijack lets the websocket upgrader take over the connection.
func (a *accessRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := a.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	a.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// RequestLogger writes one access line per request. Health probes are only
// logged when they fail.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &accessRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		if r.URL.Path == "/api/health" && rec.status < http.StatusBadRequest {
			return
		}
		level := "[HTTP]"
		if rec.status >= http.StatusInternalServerError {
			level = "[HTTP][ERROR]"
		}
		log.Printf("%s %s %s %s %d %dB %s", level, middleware.GetReqID(r.Context()),
			r.Method, r.URL.Path, rec.status, rec.size, time.Since(start).Round(time.Microsecond))
	})
}
