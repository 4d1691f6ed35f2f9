package apidoc

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/drblury/docweaver/responder"
)

// jsonFileHandler serves one file with the content type forced to JSON,
// whatever its extension.
type jsonFileHandler struct {
	path      string
	responder *responder.Responder
}

func (h *jsonFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.responder.HandleNotFoundError(w, r, fmt.Errorf("api doc file %s not found", h.path))
			return
		}
		h.responder.HandleInternalServerError(w, r, err, "failed to open api doc file")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		h.responder.HandleInternalServerError(w, r, err, "failed to stat api doc file")
		return
	}
	if info.IsDir() {
		h.responder.HandleNotFoundError(w, r, fmt.Errorf("api doc file %s is a directory", h.path))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	http.ServeContent(w, r, "", info.ModTime(), file)
}
