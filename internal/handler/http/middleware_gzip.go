package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/MKhiriev/sticky-chain/internal/app"
	"github.com/MKhiriev/sticky-chain/internal/utils"
	"github.com/go-chi/chi/v5/middleware"
)

const compressionLevel = 5

// withCompression gzips JSON and plain text responses for clients that
// accept it.
func withCompression() func(http.Handler) http.Handler {
	return middleware.Compress(compressionLevel, "application/json", "text/plain")
}

// withGzipBody inflates request bodies sent with Content-Encoding: gzip, so
// the integrity check and the handlers see the plain payload.
func withGzipBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			utils.WriteError(w, app.MsgInvalidGzip, http.StatusBadRequest)
			return
		}
		defer zr.Close()

		r.Body = io.NopCloser(zr)
		r.ContentLength = -1
		r.Header.Del("Content-Encoding")
		next.ServeHTTP(w, r)
	})
}
