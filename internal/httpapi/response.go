package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	"github.com/dwikikusuma/ec-training/internal/facade"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	_ = json.NewEncoder(w).Encode(v)
}

func writeEnvelope[T any](w http.ResponseWriter, env facade.Envelope[T]) {
	status := http.StatusOK
	if !env.Success {
		status, _, _ = httpStatusFromGRPC(apperr.ToStatus(env.Err()))
	}
	writeJSON(w, status, env)
}

func writeFailure(w http.ResponseWriter, err error) {
	writeEnvelope(w, facade.Fail[facade.Empty](err))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json body: %v", apperr.ErrValidation, err)
	}

	if err := dec.Decode(&struct{}{}); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: extra data after json", apperr.ErrValidation)
	}

	return nil
}
