package api

import (
	"net/http"

	"go.uber.org/zap"
)

// only rejects every method but method with 405.
func only(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func RegisterRoutes(mux *http.ServeMux, h *Handler, logger *zap.Logger) http.Handler {
	// Form
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		only(http.MethodGet, h.Index)(w, r)
	})
	mux.HandleFunc("/predict", only(http.MethodPost, h.SubmitForm))

	// JSON APIs
	mux.HandleFunc("/api/v1/fields", only(http.MethodGet, h.GetFields))
	mux.HandleFunc("/api/v1/predict", only(http.MethodPost, h.PredictJSON))
	mux.HandleFunc("/api/v1/model", only(http.MethodGet, h.GetModel))

	// Observability APIs
	mux.HandleFunc("/metrics", only(http.MethodGet, h.GetMetrics))
	mux.HandleFunc("/health", only(http.MethodGet, h.GetHealth))

	// Admin APIs
	mux.HandleFunc("/admin/predictions", only(http.MethodGet, h.ListPredictions))
	mux.HandleFunc("/admin/predictions.xlsx", only(http.MethodGet, h.ExportPredictions))

	// Middlewares. Recovery sits inside logging so a recovered panic is
	// still access-logged with its 500.
	return Chain(
		mux,
		RequestIDMiddleware,
		LoggingMiddleware(logger),
		RecoveryMiddleware(logger),
	)
}
