package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/sticky-chain/internal/service"
	"github.com/MKhiriev/sticky-chain/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:   http.StatusBadRequest,
	service.ErrVersionIsNotSpecified: http.StatusBadRequest,

	store.ErrNoteNotFound:      http.StatusNotFound,
	store.ErrNoteAlreadyExists: http.StatusConflict,
	store.ErrUnavailable:       http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	// client errors win over the storage error they may wrap
	if errors.Is(err, service.ErrInvalidDataProvided) {
		return http.StatusBadRequest
	}
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
