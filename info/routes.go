package info

import (
	"bytes"
	"errors"
	"net/http"
)

// GetStatus returns a simple health payload that can be used for lightweight diagnostics.
func (ih *InfoHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ih.respondProbe(w, r, http.StatusOK, "HEALTHY")
}

// GetHealthz implements the liveness probe recommended for Kubernetes.
func (ih *InfoHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.livenessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "liveness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ok")
}

// GetReadyz implements the readiness probe recommended for Kubernetes.
func (ih *InfoHandler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.readinessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "readiness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ready")
}

// GetVersion returns the structure provided by the configured InfoProvider.
func (ih *InfoHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	payload := ih.infoProvider()
	if payload == nil {
		payload = map[string]string{}
	}
	ih.RespondWithJSON(w, r, http.StatusOK, payload)
}

// GetViewer renders the HTML viewer. The page itself carries no document;
// the browser fetches it from the configured document URL.
func (ih *InfoHandler) GetViewer(w http.ResponseWriter, r *http.Request) {
	if ih.viewerTemplate == nil {
		err := errors.New("viewer template not configured")
		ih.HandleInternalServerError(w, r, err, "failed to render viewer")
		return
	}

	// Render into a buffer so template failures still produce a problem response.
	var page bytes.Buffer
	if err := ih.viewerTemplate.Execute(&page, ih.templateData(r)); err != nil {
		ih.HandleInternalServerError(w, r, err, "failed to render viewer")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = page.WriteTo(w)
}
