package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// LivenessHandler reports process liveness. It never consults checkers; a
// process that can serve the request is alive.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// ReadinessHandler reports readiness from the aggregated checker state. A
// degraded aggregate, such as a circuit probing half-open, still serves 200
// so traffic keeps flowing while the probe decides; only an unhealthy
// aggregate, such as an open circuit, returns 503. Check time is bounded by
// the aggregator's configured Timeout.
func ReadinessHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := agg.CheckAll(r.Context())
		status := agg.OverallStatus(results)

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(statusCode(status))
		_, _ = w.Write([]byte(status.String()))
	}
}

// HealthResponse is the JSON response for the detailed health endpoint.
type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Checks    map[string]CheckResponse `json:"checks,omitempty"`
}

// CheckResponse is the JSON response for a single health check. For
// breaker-backed checks, Details carries the circuit state and its
// rolling-window counters.
type CheckResponse struct {
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Duration string         `json:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// DetailedHandler returns the full aggregate as JSON, one entry per checker.
func DetailedHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := agg.CheckAll(r.Context())
		status := agg.OverallStatus(results)

		response := HealthResponse{
			Status:    status.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]CheckResponse, len(results)),
		}
		for name, result := range results {
			response.Checks[name] = toCheckResponse(result)
		}

		writeJSON(w, statusCode(status), response)
	}
}

// CheckHandler serves one named check, taken from the {name} path value.
// Unknown names return 404.
func CheckHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := agg.Check(r.Context(), r.PathValue("name"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": err.Error(),
			})
			return
		}

		writeJSON(w, statusCode(result.Status), toCheckResponse(result))
	}
}

// RegisterHandlers registers all health check handlers on the given mux.
func RegisterHandlers(mux *http.ServeMux, agg *Aggregator) {
	mux.HandleFunc("GET /healthz", LivenessHandler())
	mux.HandleFunc("GET /readyz", ReadinessHandler(agg))
	mux.HandleFunc("GET /health", DetailedHandler(agg))
	mux.HandleFunc("GET /health/{name}", CheckHandler(agg))
}

// statusCode maps a health status to its HTTP status. Degraded serves 200:
// a half-open circuit is still taking traffic.
func statusCode(s Status) int {
	if s == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func toCheckResponse(result Result) CheckResponse {
	check := CheckResponse{
		Status:   result.Status.String(),
		Message:  result.Message,
		Duration: result.Duration.String(),
		Details:  result.Details,
	}
	if result.Error != nil {
		check.Error = result.Error.Error()
	}
	return check
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
