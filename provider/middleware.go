package provider

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// statusRecorder captures the response status and, optionally, the body
type statusRecorder struct {
	http.ResponseWriter
	status  int
	body    *bytes.Buffer
	capture bool
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.capture {
		sr.body.Write(b)
	}
	return sr.ResponseWriter.Write(b)
}

// LoggingMiddleware tags each request with an id and logs it. In debug mode
// the JSON response body is logged as well, except on the /stash/ image
// routes where the body is binary.
func LoggingMiddleware(next http.Handler, debug bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()[:8]

		if debug {
			log.Printf("[%s] Request: %s %s", reqID, r.Method, r.URL)
		}

		rec := &statusRecorder{
			ResponseWriter: w,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
			capture:        debug && !strings.HasPrefix(r.URL.Path, "/stash/"),
		}

		next.ServeHTTP(rec, r)

		if !debug {
			return
		}

		if rec.capture {
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, rec.body.Bytes(), "", "  "); err == nil {
				log.Printf("[%s] Response to Plex (%s %s) [%d]:\n%s",
					reqID, r.Method, r.URL.Path, rec.status, pretty.String())
			} else {
				log.Printf("[%s] Response body (raw, %d bytes)", reqID, rec.body.Len())
			}
		} else {
			log.Printf("[%s] Response (%s %s) [%d]", reqID, r.Method, r.URL.Path, rec.status)
		}
	})
}
