package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/sticky-chain/internal/app"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/utils"
)

// withHashCheck rejects write requests whose body does not match the
// HashSHA256 header. An empty body is signed too, so deletes are covered.
func (h *Handler) withHashCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		signature := r.Header.Get(utils.HashHeader)
		if signature == "" {
			log.Error().Str("func", "*Handler.withHashCheck").Msg("missing hash header")
			utils.WriteError(w, app.MsgMissingHash, http.StatusBadRequest)
			return
		}

		// read bytes from body
		var body []byte
		if r.Body != nil {
			var err error
			body, err = io.ReadAll(r.Body)
			if err != nil {
				log.Err(err).Str("func", "*Handler.withHashCheck").Msg("failed to read request body")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !utils.VerifyHash(body, signature) {
			log.Error().Str("func", "*Handler.withHashCheck").
				Str("hash from request", signature).
				Msg("hashes are not equal")
			utils.WriteError(w, app.MsgIntegrityCheckFailed, http.StatusBadRequest)
			return
		}

		log.Debug().Str("func", "*Handler.withHashCheck").Msg("hashes are equal")
		next.ServeHTTP(w, r)
	})
}
