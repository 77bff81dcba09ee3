package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "street-segment-api/docs"
	"street-segment-api/internal/cache"
	"street-segment-api/internal/clients/nominatim"
	"street-segment-api/internal/clients/overpass"
	"street-segment-api/internal/config"
	"street-segment-api/internal/handler"
	"street-segment-api/internal/metrics"
	"street-segment-api/internal/repository"
	"street-segment-api/internal/segment"
	"street-segment-api/internal/service"
	"street-segment-api/internal/streetindex"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Street Segment API
//	@version		1.0
//	@description	Resolves the part of a city street between two points.
//	@BasePath		/

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	setupLogger(cfg)

	dataset, pool := openDataset(cfg)
	if pool != nil {
		defer pool.Close()
	}

	// Remote response cache is optional
	var nominatimCache, overpassCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		rdb := cache.Open(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		nominatimCache = cache.NewRedisCache(rdb, "nominatim", cfg.CacheTTL)
		overpassCache = cache.NewRedisCache(rdb, "overpass", cfg.CacheTTL)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := nominatimCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, remote responses will not be cached")
		}
		cancel()
	}

	nominatimClient := nominatim.NewClient(nominatim.Config{
		BaseURL:       cfg.NominatimBaseURL,
		UserAgent:     cfg.UserAgent,
		CountryCodes:  cfg.CountryCodes,
		Timeout:       cfg.NominatimTimeout,
		RatePerSecond: cfg.NominatimRatePerSecond,
	}, nominatimCache, log.Logger)
	overpassClient := overpass.NewClient(overpass.Config{
		URL:       cfg.OverpassURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.OverpassTimeout,
	}, overpassCache, log.Logger)

	// Initialize layers
	index := streetindex.NewIndex(dataset, log.Logger)
	resolver := segment.NewResolver(cfg.MaxSnapDistanceMeters)

	segmentService := service.NewSegmentService(index, resolver, &service.RemoteStreets{
		Searcher: nominatimClient,
		Geometry: overpassClient,
		City:     cfg.City,
		Country:  cfg.Country,
	}, cfg.FuzzyThreshold, log.Logger)
	streetSearchService := service.NewStreetSearchService(nominatimClient, overpassClient, cfg.City, cfg.Country)
	reverseGeocodeService := service.NewReverseGeoCodeService(nominatimClient)

	segmentHandler := handler.NewSegmentHandler(segmentService)
	streetSearchHandler := handler.NewStreetSearchHandler(streetSearchService)
	reverseGeocodeHandler := handler.NewReverseGeocodeHandler(reverseGeocodeService)

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(handler.RequestLogger(log.Logger))
	r.Use(gin.Recovery())
	r.Use(handler.RequestTimeout(cfg.RequestTimeout))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	streets := r.Group("/streets")
	{
		streets.GET("/search", streetSearchHandler.Search)
		streets.GET("/segments", streetSearchHandler.SearchSegments)
		streets.GET("/geometry/:osm_type/:osm_id", streetSearchHandler.Geometry)
		streets.GET("/reverse", reverseGeocodeHandler.ReverseGeocode)

		streets.POST("/segment", segmentHandler.Segment)
		streets.POST("/segment-local", segmentHandler.SegmentLocal)
		streets.GET("/fast-geometry/:street_name", segmentHandler.FastGeometry)
		streets.GET("/fast-search", segmentHandler.FastSearch)
		streets.GET("/cache/stats", segmentHandler.CacheStats)
		streets.POST("/cache/invalidate", segmentHandler.InvalidateCache)
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Load the dataset before the first request needs it.
	go func() {
		stats := segmentService.CacheStats()
		log.Info().Int("streets", stats.TotalStreets).Msg("street index warmed up")
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shut down")
	}
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Development() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// openDataset picks the street dataset backend. The pool is nil for the file backend.
func openDataset(cfg config.Config) (streetindex.DatasetProvider, *pgxpool.Pool) {
	switch cfg.DatasetSource {
	case config.DatasetPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := repository.OpenPool(ctx, cfg.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		dataset := repository.NewPostgresDataset(pool)
		if err := dataset.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("cannot prepare schema")
		}
		return dataset, pool
	default:
		bounds, err := cfg.CityBounds()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid city bounds")
		}
		return repository.NewFileDataset(cfg.DatasetPath, bounds, log.Logger), nil
	}
}
