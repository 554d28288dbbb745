package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hazyhaar/morph/docpipe"
	"github.com/hazyhaar/morph/media"
	"github.com/hazyhaar/morph/sanitize"
	"github.com/hazyhaar/morph/shield"
	"github.com/hazyhaar/morph/units"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// validationErrs is the 400 family: the client sent something the service
// cannot work with. Everything else that reaches writeError is a 500.
var validationErrs = []error{
	sanitize.ErrMissingFile,
	sanitize.ErrUnsupportedExtension,
	sanitize.ErrPathTraversal,
	units.ErrInvalidValue,
	units.ErrUnknownUnit,
	units.ErrUnknownDomain,
	units.ErrUnknownColorFormat,
	units.ErrUnknownCurrency,
	units.ErrInvalidTimestamp,
	units.ErrUnknownTimezone,
	docpipe.ErrUnsupportedPair,
	docpipe.ErrUnsupportedFormat,
	docpipe.ErrTooLarge,
	media.ErrUnsupportedFormat,
}

// writeError maps an error to its HTTP status and emits the JSON envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		status = http.StatusBadRequest
	} else {
		for _, v := range validationErrs {
			if errors.Is(err, v) {
				status = http.StatusBadRequest
				break
			}
		}
	}

	log := shield.GetLogger(r.Context())
	if status >= 500 {
		log.Error("conversion failed", "error", err)
	} else {
		log.Info("request rejected", "error", err, "status", status)
	}

	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

// streamFile sends converted bytes as a download attachment.
func streamFile(w http.ResponseWriter, data []byte, mimeType, downloadName string) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
