package response

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/dmitrymomot/shopfront/core/handler"
)

// ErrNilTemplate is returned at render time when a template response has no template.
var ErrNilTemplate = errors.New("template is nil")

// TemplateName renders a named template from a parsed set with 200 OK.
func TemplateName(tmpl *template.Template, name string, data any) handler.Response {
	return TemplateNameWithStatus(tmpl, name, data, http.StatusOK)
}

// TemplateNameWithStatus renders a named template with a custom status code.
// Output is buffered, so a failing template writes nothing and its error
// reaches the error handler intact.
func TemplateNameWithStatus(tmpl *template.Template, name string, data any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if tmpl == nil {
			return ErrNilTemplate
		}

		var buf bytes.Buffer
		var err error
		if name != "" {
			err = tmpl.ExecuteTemplate(&buf, name, data)
		} else {
			err = tmpl.Execute(&buf, data)
		}
		if err != nil {
			return err
		}

		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, err = w.Write(buf.Bytes())
		return err
	}
}
