package bot

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LivenessServer answers hosting platform probes
type LivenessServer struct {
	server *http.Server
}

// NewLivenessServer creates the probe server on addr
func NewLivenessServer(addr string) *LivenessServer {
	return &LivenessServer{
		server: &http.Server{
			Addr:         addr,
			Handler:      livenessHandler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func livenessHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("alive"))
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

// Start serves in the background
func (l *LivenessServer) Start() {
	go func() {
		log.Infof("Liveness server listening on %s", l.server.Addr)
		if err := l.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Liveness server error: %v", err)
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (l *LivenessServer) Shutdown(ctx context.Context) error {
	return l.server.Shutdown(ctx)
}
