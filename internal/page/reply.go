package page

import "net/http"

// reply wraps a ResponseWriter so a response is committed at most once.
// Every dispatch path checks the guard before writing, which keeps a late
// error from clobbering an already-sent page.
type reply struct {
	w    http.ResponseWriter
	sent bool
}

func newReply(w http.ResponseWriter) *reply {
	return &reply{w: w}
}

func (r *reply) Header() http.Header {
	return r.w.Header()
}

func (r *reply) HTML(status int, body string) {
	if r.sent {
		return
	}
	r.sent = true
	r.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	r.w.WriteHeader(status)
	_, _ = r.w.Write([]byte(body))
}

func (r *reply) Raw(status int, body []byte) {
	if r.sent {
		return
	}
	r.sent = true
	r.w.WriteHeader(status)
	if len(body) > 0 {
		_, _ = r.w.Write(body)
	}
}
