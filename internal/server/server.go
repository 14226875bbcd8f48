// Package server exposes the budget predictor, itinerary builder and saved
// trips over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/theirongolddev/wander/internal/itinerary"
	"github.com/theirongolddev/wander/internal/model"
	"github.com/theirongolddev/wander/internal/pipeline"
	"github.com/theirongolddev/wander/internal/places"
	"github.com/theirongolddev/wander/internal/weather"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Trips is the saved-trip store used by the trip routes.
type Trips interface {
	SaveTrip(ctx context.Context, it model.Itinerary) (model.Itinerary, error)
	GetTrip(ctx context.Context, id string) (model.Itinerary, error)
	ListTrips(ctx context.Context) ([]model.Itinerary, error)
	DeleteTrip(ctx context.Context, id string) error
}

// Weather serves the weather route.
type Weather interface {
	Current(ctx context.Context, city string) (*weather.Current, error)
	Forecast(ctx context.Context, city string, days int) ([]weather.DailySummary, error)
}

// Places serves the place search route.
type Places interface {
	Search(ctx context.Context, query string, opts places.SearchOptions) ([]places.Place, error)
}

// Deps are the collaborators behind the routes. Trips, Weather and Places
// are optional; their routes answer 503 when unset.
type Deps struct {
	Predictor   *pipeline.Predictor
	Options     itinerary.Options
	DefaultTier model.Tier
	Trips       Trips
	Weather     Weather
	Places      Places
	// PlacesLimit caps search results; zero leaves it to the API.
	PlacesLimit int
	Log         *zap.Logger
}

// Config holds listener settings.
type Config struct {
	Addr string
	Mode string
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.DefaultTier == "" {
		d.DefaultTier = model.TierBudget
	}
	h := &handler{Deps: d}

	r := gin.New()
	r.Use(Recovery(d.Log), Logger(d.Log), CORS())

	r.GET("/healthz", h.health)

	v1 := r.Group("/v1")
	{
		v1.GET("/cities", h.cities)
		v1.GET("/predict", h.predict)
		v1.GET("/transport-cost", h.transportCost)
		v1.GET("/distance", h.distance)
		v1.POST("/itinerary", h.buildItinerary)

		trips := v1.Group("/trips")
		trips.GET("", h.listTrips)
		trips.POST("", h.createTrip)
		trips.GET("/:id", h.getTrip)
		trips.DELETE("/:id", h.deleteTrip)

		v1.GET("/weather/:city", h.weather)
		v1.GET("/places/search", h.searchPlaces)
	}
	return r
}

// Register runs engine on cfg.Addr for the lifetime of the fx app. The
// listener is bound during start so address errors fail startup.
func Register(lc fx.Lifecycle, cfg Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", cfg.Addr, err)
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping http server")
			return srv.Shutdown(ctx)
		},
	})
}

// Module wires the router and listener into an fx app. It expects Deps,
// Config and *zap.Logger to be supplied.
var Module = fx.Options(
	fx.Provide(NewRouter),
	fx.Invoke(Register),
)
