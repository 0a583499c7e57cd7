// Copyright 2026 GridLink
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"gridlink/backend/connectors/registry"
	"gridlink/backend/grid"
	"gridlink/backend/scheduler"
	"gridlink/backend/shared/logger"
	"gridlink/backend/store"
)

// Components
var (
	credentialStore   *store.Credentials
	queryStore        *store.Queries
	settingStore      *store.Settings
	connectorRegistry *registry.Registry
	gridClient        *grid.Client
	sched             *scheduler.Scheduler
	srvLog            = logger.New("SERVER")
)

// Prometheus metrics
var (
	promQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridlink_queries_total",
			Help: "Total number of one-off queries executed",
		},
		[]string{"status"},
	)
	promPanicsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gridlink_uncaught_panics_total",
			Help: "Total number of requests recovered by the catch-all",
		},
	)
)

func init() {
	prometheus.MustRegister(promQueriesTotal)
	prometheus.MustRegister(promPanicsTotal)
}

// Run is the exported entry point for the backend service. It opens the
// persisted collections, reschedules every saved query, and serves the HTTP
// surface until the process is told to stop.
//
// Environment variables used:
//   - PORT: HTTP server port (default: 9494)
//   - GRIDLINK_STORAGE_DIR: directory for the persisted collections
//   - GRIDLINK_CONFIG: optional YAML config file
func Run() {
	cfg := loadConfig()
	if err := initComponents(cfg); err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}

	sched.Load()

	// Timers are in-memory only; cancel them on shutdown and let the next
	// Load resurrect the schedules from disk.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		sched.Shutdown()
		os.Exit(0)
	}()

	handler := newRouter(cfg)
	srvLog.Info("listening", logger.Fields{"port": cfg.Port, "storageDir": cfg.StorageDir})
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}

func initComponents(cfg Config) error {
	var err error
	if credentialStore, err = store.OpenCredentials(filepath.Join(cfg.StorageDir, "credentials.json")); err != nil {
		return err
	}
	if queryStore, err = store.OpenQueries(filepath.Join(cfg.StorageDir, "queries.json")); err != nil {
		return err
	}
	if settingStore, err = store.OpenSettings(filepath.Join(cfg.StorageDir, "settings.json")); err != nil {
		return err
	}

	connectorRegistry = registry.New()
	gridClient = grid.NewClient(settingStore.GridAPIDomain)
	sched = scheduler.New(queryStore, credentialStore, settingStore, connectorRegistry, gridClient)
	return nil
}

func newRouter(cfg Config) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/ping", pingHandler).Methods("GET")
	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// OAuth
	r.HandleFunc("/oauth2/callback", oauthCallbackHandler).Methods("GET")
	r.HandleFunc("/oauth-token", oauthTokenHandler).Methods("POST")

	// One-off connector operations, one session per request
	r.HandleFunc("/query/{id}", queryHandler).Methods("POST")
	r.HandleFunc("/tables/{id}", tablesHandler).Methods("POST")
	r.HandleFunc("/s3-keys/{id}", s3KeysHandler).Methods("POST")
	r.HandleFunc("/apache-drill-storage/{id}", drillStorageHandler).Methods("POST")
	r.HandleFunc("/apache-drill-s3-keys/{id}", s3KeysHandler).Methods("POST")

	// Credentials
	r.HandleFunc("/credentials", saveCredentialHandler).Methods("POST")
	r.HandleFunc("/credentials", listCredentialsHandler).Methods("GET")
	r.HandleFunc("/credentials/{id}", deleteCredentialHandler).Methods("DELETE")

	// Persistent queries
	r.HandleFunc("/queries", registerQueryHandler).Methods("POST")
	r.HandleFunc("/queries", listQueriesHandler).Methods("GET")
	r.HandleFunc("/queries/{fid}", getQueryHandler).Methods("GET")
	r.HandleFunc("/queries/{fid}", deleteQueryHandler).Methods("DELETE")

	// Exercises the catch-all
	r.HandleFunc("/_throw", throwHandler).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(recoverMiddleware(r))
}

// recoverMiddleware converts any panic into a generic server error while
// keeping the process alive.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				promPanicsTotal.Inc()
				srvLog.Error("recovered from panic", nil, logger.Fields{"panic": rec, "path": r.URL.Path})
				respondJSON(w, http.StatusInternalServerError, errorBody{Error: errorMessage{Message: "Yikes - uncaught error"}})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
