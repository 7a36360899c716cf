// Package api serves the dataset engines over HTTP.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"hermannm.dev/sheetlens/config"
	"hermannm.dev/sheetlens/log"
	"hermannm.dev/sheetlens/presets"
)

type SheetlensAPI struct {
	datasets *datasetStore
	presets  *presets.Service
	router   chi.Router
	config   config.API
}

func NewSheetlensAPI(presetService *presets.Service, config config.API) *SheetlensAPI {
	api := &SheetlensAPI{
		datasets: newDatasetStore(),
		presets:  presetService,
		router:   chi.NewRouter(),
		config:   config,
	}

	api.router.Use(middleware.RealIP)
	api.router.Use(logRequests)
	api.router.Use(middleware.Recoverer)
	api.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	api.router.Route("/datasets", func(router chi.Router) {
		router.Get("/", api.ListDatasets)
		router.Post("/", api.UploadDataset)

		router.Route("/{datasetID}", func(router chi.Router) {
			router.Get("/", api.GetDataset)
			router.Delete("/", api.DeleteDataset)

			router.Route("/sheets/{sheet}", func(router chi.Router) {
				router.Post("/filter", api.FilterSheet)
				router.Post("/view", api.ViewSheet)
				router.Post("/chart", api.ChartSheet)
				router.Post("/export", api.ExportSheet)
			})
		})
	})

	api.router.Route("/presets", func(router chi.Router) {
		router.Get("/", api.ListPresets)
		router.Post("/", api.CreatePreset)
		router.Get("/{presetID}", api.GetPreset)
		router.Put("/{presetID}", api.UpdatePreset)
		router.Delete("/{presetID}", api.DeletePreset)
	})

	api.router.Post("/share/encode", api.EncodeShareLink)
	api.router.Get("/share/decode", api.DecodeShareLink)

	return api
}

func (api *SheetlensAPI) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	api.router.ServeHTTP(res, req)
}

func (api *SheetlensAPI) ListenAndServe() error {
	server := http.Server{
		Addr:              fmt.Sprintf(":%s", api.config.Port),
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		wrappedRes := middleware.NewWrapResponseWriter(res, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(wrappedRes, req)

		log.Debug(
			"handled request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", wrappedRes.Status(),
			"duration", time.Since(start),
		)
	})
}
