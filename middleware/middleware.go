// Package middleware validates JSON request bodies against a JADN schema.
// Framework adapters live in the echo and gin sub-modules.
package middleware

import (
	"context"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/reoring/jadn"
)

type ctxKeyInstance struct{}

// ContextWithInstance attaches a validated instance to the context.
func ContextWithInstance(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyInstance{}, v)
}

// InstanceFromContext retrieves the instance stored by ContextWithInstance.
func InstanceFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyInstance{})
	return v, v != nil
}

// Decode reads a JSON body and validates it against typeName, or against the
// schema exports when typeName is empty.
func Decode(ctx context.Context, s *jadn.Schema, body io.Reader, typeName string, opt jadn.ValidateOpt) (any, error) {
	v, err := jadn.DecodeInstanceFrom(body)
	if err != nil {
		return nil, errors.WithMessage(err, "decode body")
	}
	if typeName == "" {
		err = s.Validate(ctx, v, opt)
	} else {
		err = s.ValidateAs(ctx, v, typeName, opt)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ErrorPayload shapes a decode or validation failure for a JSON response.
func ErrorPayload(err error) map[string]any {
	iss, ok := jadn.AsIssues(err)
	if !ok {
		return map[string]any{"error": err.Error()}
	}
	out := make([]map[string]any, 0, len(iss))
	for _, it := range iss {
		out = append(out, map[string]any{"path": it.Path, "code": it.Code, "message": it.Message})
	}
	return map[string]any{"issues": out}
}

// Handler validates request bodies before calling next. Failures are
// answered with 400 and the ErrorPayload.
func Handler(s *jadn.Schema, typeName string, opt jadn.ValidateOpt, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := Decode(r.Context(), s, r.Body, typeName, opt)
		if err != nil {
			WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithInstance(r.Context(), v)))
	})
}

// WriteError writes the ErrorPayload of err with status 400.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(ErrorPayload(err))
}
