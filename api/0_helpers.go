package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/filestore/filestore"
	"github.com/fulldump/filestore/query"
	"github.com/fulldump/filestore/service"
)

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

// InterceptorUnavailable rejects every request while the engine is unusable,
// typically because its data directory does not exist.
func InterceptorUnavailable(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			err := s.Status()
			if err != nil {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: %w", err))
				return
			}
			next(ctx)
		}
	}
}

// errorStatus maps an error to its HTTP status and a human description.
func errorStatus(ctx context.Context, err error) (int, string) {

	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "user is not authenticated"
	case errors.Is(err, service.ErrorCollectionNotFound):
		return http.StatusNotFound, fmt.Sprintf("collection '%s' not found", box.GetUrlParameter(ctx, "collectionName"))
	case errors.Is(err, service.ErrorDocumentNotFound):
		return http.StatusNotFound, fmt.Sprintf("document '%s' not found", box.GetUrlParameter(ctx, "documentId"))
	case errors.Is(err, filestore.ErrConfig):
		return http.StatusServiceUnavailable, "storage is not configured properly"
	case errors.Is(err, filestore.ErrInvalidName):
		return http.StatusBadRequest, "Invalid collection or document name"
	case errors.Is(err, query.ErrUnsupportedOperator), errors.Is(err, query.ErrInvalidPredicate):
		return http.StatusBadRequest, "Invalid filter"
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.As(err, &typeError):
		return http.StatusBadRequest, "Unexpected JSON type"
	case errors.Is(err, filestore.ErrParse):
		return http.StatusInternalServerError, "Corrupt document on disk"
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}

		status, description := errorStatus(ctx, err)

		w := box.GetResponse(ctx)
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}
