// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/sticky-chain/internal/utils"
)

const msgNotFound = "not found"

// notFound answers unknown paths and, as the MethodNotAllowed handler,
// known paths called with an unsupported method. The API answers 404 in
// both cases so unsupported methods do not reveal routes.
func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, msgNotFound, http.StatusNotFound)
}
