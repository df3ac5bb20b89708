package middleware

import "net/http"

// MaxRequestBody is the largest accepted /graphql request body.
const MaxRequestBody = 1 << 20

// MaxBodyBytes limits the request body; reads past maxBytes fail and the handler answers 4xx.
func MaxBodyBytes(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
