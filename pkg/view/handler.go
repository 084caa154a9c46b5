package view

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"
)

// DataFunc builds the render params for a request.
type DataFunc func(*http.Request) (any, error)

// Handler renders the named template on every request. Missing templates map
// to 404, invalid params to 400 and anything else to 500.
func Handler(r Renderer, name string, data DataFunc) http.Handler {
	contentType := contentTypeFor(name)

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var params any
		if data != nil {
			var err error
			params, err = data(req)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}

		out, err := r.Render(name, params)
		if err != nil {
			status := statusFor(err)
			http.Error(w, http.StatusText(status), status)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(out))
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func contentTypeFor(name string) string {
	_, file, ok := strings.Cut(name, NamespaceSeparator)
	if !ok {
		file = name
	}
	ext := path.Ext(file)
	if !suffixPattern.MatchString(file) || ext == "" {
		ext = DefaultExtension
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "text/html; charset=utf-8"
}
