package httpapi

import (
	"net/http"
)

// writeText writes a plain-text body without the trailing newline http.Error adds.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func writeEmpty(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}
