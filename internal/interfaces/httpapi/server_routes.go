package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	// The /pay route predates the /v1 namespace and is pinned by the mobile
	// clients.
	mux.HandleFunc("POST /pay", handler.InitiatePayment)
	mux.HandleFunc("GET /v1/matches/{matchID}/prediction", handler.GetMatchPrediction)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/daily-predictions", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDailyPredictions)))
	mux.Handle("GET /v1/internal/payments", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListPaymentsByEmail)))
	mux.Handle("POST /v1/internal/payments/{reference}/status", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ConfirmPaymentStatus)))
}
