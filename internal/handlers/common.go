package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/diewo77/go-cotizaciones/gate"
	"github.com/diewo77/go-cotizaciones/httpx"
	"github.com/diewo77/go-cotizaciones/i18n"
	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/policy"
	"github.com/diewo77/go-cotizaciones/internal/remote"
	"github.com/diewo77/go-cotizaciones/internal/services"
	"github.com/diewo77/go-cotizaciones/validation"
	"github.com/go-chi/chi/v5"
)

// maxUploadSize bounds spreadsheet uploads.
const maxUploadSize = 10 << 20

func currentUser(r *http.Request) models.User {
	u, _ := policy.UserFromContext(r.Context())
	return u
}

func pathID(r *http.Request, name string) models.ID {
	return models.ID(chi.URLParam(r, name))
}

func pathIndex(r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	return i, err == nil
}

// fail writes a failed Result with the code translated for the request language.
func fail(w http.ResponseWriter, r *http.Request, status int, code string, details any) {
	httpx.FailMessage(w, status, code, i18n.T(i18n.FromContext(r.Context()), code), details)
}

func invalidJSON(w http.ResponseWriter, r *http.Request) {
	fail(w, r, http.StatusBadRequest, "invalid_json", nil)
}

func validationFailed(w http.ResponseWriter, r *http.Request, v validation.Violations) {
	fail(w, r, http.StatusUnprocessableEntity, "validation_failed", v)
}

// writeError maps service and remote errors onto a failed Result.
// Remote 4xx statuses are passed through; other remote failures are 502.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var apiErr *remote.APIError
	switch {
	case errors.Is(err, services.ErrIndexOutOfRange):
		fail(w, r, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrUnsupportedFile):
		fail(w, r, http.StatusUnsupportedMediaType, "unsupported_file", err.Error())
	case errors.Is(err, services.ErrSelfDelete):
		fail(w, r, http.StatusBadRequest, "self_delete", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(w, r, http.StatusUnauthorized, "invalid_credentials", nil)
	case errors.Is(err, gate.ErrUnauthorized), errors.Is(err, gate.ErrNoProfile):
		fail(w, r, http.StatusForbidden, "forbidden", nil)
	case errors.As(err, &apiErr):
		switch {
		case apiErr.Status == http.StatusNotFound:
			fail(w, r, http.StatusNotFound, "not_found", apiErr.Message)
		case apiErr.Status >= 400 && apiErr.Status < 500:
			fail(w, r, apiErr.Status, "remote_error", apiErr.Message)
		default:
			log.Printf("[%s] remote failure: %v", op, err)
			fail(w, r, http.StatusBadGateway, "remote_error", apiErr.Message)
		}
	default:
		log.Printf("[%s] %v", op, err)
		fail(w, r, http.StatusInternalServerError, "internal_error", nil)
	}
}

// readUpload returns the name and content of the "file" form field.
func readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, r, http.StatusBadRequest, "file_required", nil)
		return "", nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		fail(w, r, http.StatusBadRequest, "file_unreadable", nil)
		return "", nil, false
	}
	return header.Filename, data, true
}
