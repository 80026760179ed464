package api

import (
	"delivery-scheduler/internal/metrics"
	"delivery-scheduler/internal/platform/obs"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// statusWriter captures the final HTTP status code and number of bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware tags each request with an id, logs its outcome, and
// records request metrics labelled by the matched route pattern.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		r = r.WithContext(obs.WithRequestID(r.Context(), reqID))

		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		dur := time.Since(start)

		// The mux records the matched pattern on r; keep label cardinality bounded.
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(dur.Seconds())

		log.Printf(
			"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			reqID, r.Method, r.URL.RequestURI(), sw.status, sw.bytes, dur.Milliseconds(),
		)
	})
}
