package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"estateBack/internal/models"
	"estateBack/internal/services"
)

const requestTimeout = 5 * time.Second

type ctxKey int

const actorKey ctxKey = iota

// WithActor stores the authenticated caller on the request context.
func WithActor(ctx context.Context, a services.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFrom returns the caller, or the zero Actor for anonymous requests.
func ActorFrom(ctx context.Context) services.Actor {
	a, _ := ctx.Value(actorKey).(services.Actor)
	return a
}

func contextWithTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

func getParam(r *http.Request, name string) string {
	if v := r.URL.Query().Get(":" + name); v != "" {
		return v
	}
	return r.URL.Query().Get(name)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps service errors to status codes. Unknown errors are logged
// and hidden behind a generic message.
func respondError(w http.ResponseWriter, errLog *log.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "wrong credentials")
	case errors.Is(err, models.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "storage timed out")
	default:
		if errLog == nil {
			errLog = log.Default()
		}
		errLog.Output(2, fmt.Sprintf("internal error: %v", err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", models.ErrValidation, err)
	}
	return nil
}

// queryInt parses an optional non-negative integer parameter.
func queryInt(r *http.Request, name string) (int, bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("%w: invalid %s", models.ErrValidation, name)
	}
	return n, true, nil
}

// queryBool only filters on "true". "false", "all" and absence all mean any
// value, as the listing search form sends unchecked boxes as "false".
func queryBool(r *http.Request, name string) *bool {
	if strings.TrimSpace(r.URL.Query().Get(name)) != "true" {
		return nil
	}
	v := true
	return &v
}
