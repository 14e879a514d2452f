package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/hull"
	"github.com/nbmap/nbmap/pkg/store"
	"github.com/nbmap/nbmap/pkg/xerrors"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error     errorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify wraps an error with the xerrors code the status mapping
// keys on. Validation failures of the input collection map to
// INVALID_INPUT; everything unrecognized is INTERNAL_ERROR.
func classify(err error) *xerrors.Error {
	var xerr *xerrors.Error
	if errors.As(err, &xerr) {
		return xerr
	}

	switch {
	case errors.Is(err, areal.ErrNotSimpleFeatures),
		errors.Is(err, areal.ErrNoNeighbourColumn),
		errors.Is(err, areal.ErrBadNeighbourColumn):
		return xerrors.Wrap(xerrors.ErrCodeInvalidInput, err, "%s", xerrors.UserMessage(err))
	case errors.Is(err, hull.ErrRatioRange), errors.Is(err, hull.ErrTooFewPoints):
		return xerrors.Wrap(xerrors.ErrCodeInvalidOptions, err, "%s", xerrors.UserMessage(err))
	case errors.Is(err, store.ErrNotFound):
		return xerrors.Wrap(xerrors.ErrCodeDatasetNotFound, err, "dataset not found")
	case errors.Is(err, store.ErrInvalidID):
		return xerrors.Wrap(xerrors.ErrCodeInvalidDataset, err, "invalid dataset id")
	default:
		return xerrors.Wrap(xerrors.ErrCodeInternal, err, "internal error")
	}
}

// statusFor maps an error code to its HTTP status.
func statusFor(code xerrors.Code) int {
	switch code {
	case xerrors.ErrCodeInvalidFormat,
		xerrors.ErrCodeInvalidOptions,
		xerrors.ErrCodeInvalidDataset:
		return http.StatusBadRequest
	case xerrors.ErrCodeInvalidInput,
		xerrors.ErrCodeInvalidGeometry,
		xerrors.ErrCodeInvalidRelation:
		return http.StatusUnprocessableEntity
	case xerrors.ErrCodeNotFound,
		xerrors.ErrCodeDatasetNotFound,
		xerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case xerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case xerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err, "request_id", requestIDFrom(r.Context()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	xerr := classify(err)
	status := statusFor(xerr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", requestIDFrom(r.Context()))
	}
	s.writeJSON(w, r, status, errorResponse{
		Error: errorBody{
			Code:    string(xerr.Code),
			Message: xerr.Message,
		},
		RequestID: requestIDFrom(r.Context()),
	})
}
