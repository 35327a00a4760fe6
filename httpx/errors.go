package httpx

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/recruitkit/recruitkit/log"
)

// Error logs code at the given level and sends {"error": code}.
func Error(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string) {
	log.Log(level, code)
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": code})
}

// ServerError logs err and sends a 500 with the message passed through.
func ServerError(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Errorf("%s: %s", code, err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, map[string]any{
		"error":   "server_error",
		"message": err.Error(),
	})
}

// LogNotFound logs a debug message and sends a bare 404.
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	w.WriteHeader(http.StatusNotFound)
}

// LogStatus logs an error code at the given level and sends an HTTP
// response with status and default text.
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}
