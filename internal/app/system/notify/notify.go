// internal/app/system/notify/notify.go
package notify

import (
	"net/http"

	"github.com/dalemusser/strataleads/internal/app/system/jsonutil"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
)

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Success ends a write that needs no re-render. htmx requests get a toast
// and an empty 200 so the target can be removed; plain form posts are
// redirected to back with ?ok=code.
func Success(w http.ResponseWriter, r *http.Request, back, code string) {
	if IsHTMX(r) {
		jsonutil.Notify(w, viewdata.LevelSuccess, viewdata.SuccessMessage(code))
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, viewdata.WithOK(back, code), http.StatusSeeOther)
}

// Failure reports a store or relay failure. The current content stays in
// place: htmx gets a toast with no swap, a form post goes back with
// ?error=code.
func Failure(w http.ResponseWriter, r *http.Request, back, code string) {
	if IsHTMX(r) {
		jsonutil.Notify(w, viewdata.LevelError, viewdata.ErrorMessage(code))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, viewdata.WithError(back, code), http.StatusSeeOther)
}

// Busy refuses a write whose key is already held by another request.
func Busy(w http.ResponseWriter, r *http.Request) {
	msg := viewdata.ErrorMessage(viewdata.ErrBusy)
	if IsHTMX(r) {
		jsonutil.Notify(w, viewdata.LevelError, msg)
		w.Header().Set("HX-Reswap", "none")
	}
	http.Error(w, msg, http.StatusConflict)
}
