package httpserver

import (
	"net/http"
	"time"
)

// New constructs the process HTTP server. Only the header read is bounded
// here: file uploads can legitimately hold the body open, so request-level
// deadlines are left to callers and the shutdown timeout in main.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
