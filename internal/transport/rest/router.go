package rest

import (
	"net/http"

	_ "mindwell/docs"
	"mindwell/internal/metrics"
	"mindwell/internal/service"
	"mindwell/internal/transport/rest/handler"
	"mindwell/internal/transport/rest/middleware"
	"mindwell/internal/transport/ws"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// CORSConfig holds the CORS response headers
type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	ScreeningService *service.ScreeningService
	WSHub            *ws.Hub
	Metrics          *metrics.Metrics
	Logger           *zap.Logger
	AdminKey         string
	CORS             CORSConfig
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	screeningHandler := handler.NewScreeningHandler(c.ScreeningService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.ScreeningService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService, c.AdminKey)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))
	r.Use(middleware.RequestLogger(c.Logger, c.Metrics))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/metrics", c.Metrics.Handler()).Methods("GET")
	r.HandleFunc("/swagger/doc.json", swaggerDoc).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/questions", screeningHandler.Questions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/levels", screeningHandler.Levels).Methods("GET", "OPTIONS")
	v1.HandleFunc("/levels/{level}/recommendations", screeningHandler.Recommendations).Methods("GET", "OPTIONS")
	v1.HandleFunc("/crisis-contacts", screeningHandler.CrisisContacts).Methods("GET", "OPTIONS")
	v1.HandleFunc("/score", screeningHandler.Score).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions", screeningHandler.StartSession).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Session routes (require the session's own token)
	sessionRoutes := v1.PathPrefix("/sessions/{id}").Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("", screeningHandler.GetSession).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/answers/{questionId}", screeningHandler.SubmitAnswer).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/result", screeningHandler.GetResult).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/reset", screeningHandler.Reset).Methods("POST", "OPTIONS")

	// Admin routes
	adminRoutes := v1.PathPrefix("/results").Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/summary", screeningHandler.Summary).Methods("GET", "OPTIONS")

	return r
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, `{"error":"api documentation unavailable"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func corsMiddleware(cfg CORSConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
