package middleware

import (
	"net/http"

	"tessera/internal/httputil"
)

// ClientIDHeader names the collaboration connection that issued a request.
// Broadcasts caused by the request skip that connection.
const ClientIDHeader = "X-Client-ID"

// ClientID copies the client ID from the header, or the client_id query
// parameter, into the request context
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(ClientIDHeader)
		if id == "" {
			id = r.URL.Query().Get("client_id")
		}
		if id != "" {
			r = httputil.WithClientID(r, id)
		}
		next.ServeHTTP(w, r)
	})
}
