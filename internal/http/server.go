package http

import (
	"io/fs"
	"net/http"

	"acquisti/internal/log"
	"acquisti/internal/services"
	appweb "acquisti/web"
)

type Server struct {
	http.Server
	service *services.PurchaseService
	logger  *log.Logger
}

// NewServer wires the JSON API and the embedded static client. All
// domain behavior lives behind the service; handlers only parse
// parameters and marshal results.
func NewServer(addr string, service *services.PurchaseService, logger *log.Logger) *Server {
	s := &Server{
		service: service,
		logger:  logger.WithComponent("http"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/ping", s.handlePing)
	mux.HandleFunc("/api/purchases", s.handlePurchases)
	mux.HandleFunc("/api/purchases/", s.handlePurchaseByID)
	mux.HandleFunc("/api/stats/total", s.handleStatsTotal)
	mux.HandleFunc("/api/stats/top-products", s.handleTopProducts)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/import", s.handleImport)

	if staticFS, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			http.ServeFileFS(w, r, appweb.StaticFS, "static/index.html")
		})
	}

	s.Server = http.Server{
		Addr:    addr,
		Handler: log.Middleware(s.logger)(withCORS(mux)),
	}
	return s
}

// withCORS mirrors the permissive cross-origin policy of the original
// client: any origin may call the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
