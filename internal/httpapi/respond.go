package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/render"
	"pagebuilder/internal/service"
)

const maxBodyBytes = 4 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Outcome string `json:"outcome,omitempty"`
}

func respondJSON(log *zap.Logger, w http.ResponseWriter, status int, data any) {
	body, err := domain.EncodeJSON(data, "")
	if err != nil {
		log.Error("failed to encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func respondText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}

func respondError(log *zap.Logger, w http.ResponseWriter, status int, message string) {
	respondJSON(log, w, status, errorBody{Error: true, Message: message, Code: status})
}

// respondEngineError maps an engine error to a status by its outcome.
func respondEngineError(log *zap.Logger, w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	outcome := service.OutcomeOf(err)
	log.Debug("engine call refused", zap.String("op", op), zap.Stringer("outcome", outcome), zap.Error(err))
	respondJSON(log, w, status, errorBody{Error: true, Message: err.Error(), Code: status, Outcome: outcome.String()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoChange),
		errors.Is(err, service.ErrNothingToUndo),
		errors.Is(err, service.ErrNothingToRedo):
		return http.StatusConflict
	case errors.Is(err, render.ErrParse), errors.Is(err, render.ErrNotArray):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// readBody reads the request body up to maxBodyBytes.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return nil, errors.New("request body too large")
	}
	return data, nil
}

// decodeJSON decodes a JSON body into v, keeping numbers exact.
func decodeJSON(r *http.Request, v any) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// decodeRequest decodes a request struct and validates its tags.
func decodeRequest(r *http.Request, v any) error {
	if err := decodeJSON(r, v); err != nil {
		return err
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
