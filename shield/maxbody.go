package shield

import "net/http"

// MaxBody returns middleware that caps the request body size for every
// request. Uploads above the limit fail inside the handler's multipart read
// with http.MaxBytesError, which the handlers map to a 400 response.
func MaxBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
