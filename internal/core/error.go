package core

import (
	"bytes"
	"html"
	"html/template"
	"net/http"
)

// ErrorPageFunc generates a full HTML error page. Custom generators replace
// the built-in one; if they fail, the built-in page is served instead.
type ErrorPageFunc func(r *http.Request, err error, isDev bool) (string, error)

type errorPageData struct {
	Message string
	IsDev   bool
}

// The fallback error page carries no scripts and no container element, so
// the client runtime never attempts to hydrate it.
var errorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Error</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 0 20px; }
        h1 { color: #e74c3c; }
        pre { background: #f8f9fa; padding: 15px; border-radius: 5px; overflow-x: auto; }
    </style>
</head>
<body>
    <h1>Internal Server Error</h1>
    {{if .IsDev}}
    <pre>{{.Message}}</pre>
    {{else}}
    <p>An error occurred while processing your request.</p>
    {{end}}
</body>
</html>`))

// DefaultErrorPage renders the built-in error page. In dev mode the error
// message is shown; in production it is withheld.
func DefaultErrorPage(err error, isDev bool) string {
	data := errorPageData{Message: "Internal Server Error", IsDev: isDev}
	if err != nil {
		data.Message = err.Error()
	}

	var buf bytes.Buffer
	if execErr := errorTemplate.Execute(&buf, data); execErr != nil {
		return "<!doctype html><html><body><pre>" + html.EscapeString(data.Message) + "</pre></body></html>"
	}
	return buf.String()
}
