// internal/app/features/errors/errors.go
package errors

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with the request path and method.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log logs err at error level. A read abandoned because the client went
// away is logged at debug instead.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	}, fields...)
	if stderrors.Is(err, context.Canceled) {
		e.logger.Debug(msg, all...)
		return
	}
	e.logger.Error(msg, all...)
}

// Handler renders the error pages.
type Handler struct{}

// NewHandler creates a new error Handler.
func NewHandler() *Handler {
	return &Handler{}
}

type errorData struct {
	viewdata.BaseVM
	Code    int
	Message string
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, code int, title, message string) {
	data := errorData{BaseVM: viewdata.New(r), Code: code, Message: message}
	data.Title = title
	w.WriteHeader(code)
	templates.Render(w, r, "errors/page", data)
}

// Forbidden renders the 403 page.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusForbidden, "Accès refusé", "Vous n'avez pas accès à cette page.")
}

// Unauthorized renders the 401 page.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusUnauthorized, "Connexion requise", "Connectez-vous pour accéder à cette page.")
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "Page introuvable", "La page demandée n'existe pas ou a été supprimée.")
}

// InternalError renders the 500 page.
func (h *Handler) InternalError(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusInternalServerError, "Erreur serveur", "Une erreur est survenue. Réessayez dans un instant.")
}
