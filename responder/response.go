package responder

import (
	"net/http"

	"github.com/drblury/docweaver/jsonutil"
)

// HandleAPIError renders a problem document for the supplied HTTP status and
// logs it using the configured logger.
func (r *Responder) HandleAPIError(w http.ResponseWriter, req *http.Request, status int, err error, logMsg ...string) {
	if err == nil {
		return
	}

	meta := r.statusMetaFor(status)
	problem := r.buildProblemDetails(req, status, err, meta)
	r.logProblem(req, meta, err, problem.TraceID, status, logMsg)
	r.respondWithJSON(w, req, status, problem, problemContentType)
}

// HandleInternalServerError is a shortcut that reports a 500 status code.
func (r *Responder) HandleInternalServerError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusInternalServerError, err, logMsg...)
}

// HandleNotFoundError reports a missing route or document using HTTP 404.
func (r *Responder) HandleNotFoundError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusNotFound, err, logMsg...)
}

// HandleMethodNotAllowedError reports HTTP 405 and advertises the allowed
// methods through the Allow header.
func (r *Responder) HandleMethodNotAllowedError(w http.ResponseWriter, req *http.Request, err error, allowed []string, logMsg ...string) {
	if err == nil {
		return
	}
	for _, method := range allowed {
		w.Header().Add("Allow", method)
	}
	r.HandleAPIError(w, req, http.StatusMethodNotAllowed, err, logMsg...)
}

// RespondWithJSON serialises the provided value and writes it to the response
// using the supplied status code.
func (r *Responder) RespondWithJSON(w http.ResponseWriter, req *http.Request, status int, v any) {
	r.respondWithJSON(w, req, status, v, jsonContentType)
}

// RespondWithRawJSON writes an already encoded JSON body.
func (r *Responder) RespondWithRawJSON(w http.ResponseWriter, status int, body []byte) {
	if w == nil {
		return
	}
	r.writeResponse(w, status, jsonContentType, body)
}

func (r *Responder) respondWithJSON(w http.ResponseWriter, req *http.Request, status int, payload any, contentType string) {
	if w == nil {
		return
	}

	body, err := r.marshalPayload(payload)
	if err != nil {
		scope := scopeOf(req)
		r.logger().ErrorContext(scope.ctx, "failed to encode response", append(scope.logAttrs(), "error", err)...)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	r.writeResponse(w, status, resolveContentType(contentType, jsonContentType), body)
}

func (r *Responder) marshalPayload(payload any) ([]byte, error) {
	data, err := jsonutil.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

func (r *Responder) writeResponse(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.logger().Error("failed to write response", "error", err)
	}
}

func resolveContentType(provided, fallback string) string {
	if provided == "" {
		return fallback
	}
	return provided
}
