package serve

import (
	"net/http"
)

// TextSource is anything holding the latest status text, such as a
// status.Label.
type TextSource interface {
	Text() string
	IsError() bool
}

// StatusServer serves the latest status text as plain text. It answers 503
// while the status is an error.
type StatusServer struct {
	Source TextSource
}

func (s *StatusServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if s.Source.IsError() {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	w.Write([]byte(s.Source.Text()))
}
