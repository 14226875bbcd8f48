package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/theirongolddev/wander/internal/estimator"
	"github.com/theirongolddev/wander/internal/itinerary"
	"github.com/theirongolddev/wander/internal/model"
	"github.com/theirongolddev/wander/internal/places"
	"github.com/theirongolddev/wander/internal/reference"
	"github.com/theirongolddev/wander/internal/store"
	"github.com/theirongolddev/wander/internal/weather"

	"github.com/gin-gonic/gin"
)

var (
	errBadRequest  = errors.New("bad request")
	errUnavailable = errors.New("service not configured")
)

type handler struct {
	Deps
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, reference.ErrCityNotFound),
		errors.Is(err, store.ErrTripNotFound),
		errors.Is(err, weather.ErrCityUnknown),
		errors.Is(err, places.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, estimator.ErrModelNotFound),
		errors.Is(err, itinerary.ErrInvalidPlan),
		errors.Is(err, itinerary.ErrInvalidTrip),
		errors.Is(err, places.ErrEmptyQuery),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, weather.ErrUnauthorized),
		errors.Is(err, weather.ErrRateLimited),
		errors.Is(err, places.ErrUnauthorized):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(msg string) error {
	return &wrapped{msg: msg, err: errBadRequest}
}

type wrapped struct {
	msg string
	err error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.err }

func (h *handler) tier(c *gin.Context) model.Tier {
	if t := c.Query("tier"); t != "" {
		return model.ParseTier(t)
	}
	return h.DefaultTier
}

func (h *handler) health(c *gin.Context) {
	rt := h.Predictor.Runtime()
	status := "ok"
	if rt.Degraded {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"degraded":       rt.Degraded,
		"cities":         rt.Cities.Len(),
		"models_version": rt.Registry.Version(),
		"loaded_at":      rt.LoadedAt,
	})
}

func (h *handler) cities(c *gin.Context) {
	rt := h.Predictor.Runtime()
	if d := c.Query("district"); d != "" {
		c.JSON(http.StatusOK, rt.Cities.FilterByDistrict(d))
		return
	}
	c.JSON(http.StatusOK, rt.Cities.Cities())
}

func (h *handler) predict(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		h.fail(c, badRequest("city is required"))
		return
	}
	season := c.DefaultQuery("season", model.SeasonPeak)

	b, err := h.Predictor.PredictBudget(city, season, h.tier(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *handler) transportCost(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	mode := strings.TrimSpace(c.Query("mode"))
	if city == "" || mode == "" {
		h.fail(c, badRequest("city and mode are required"))
		return
	}
	km, err := strconv.ParseFloat(c.Query("km"), 64)
	if err != nil || km < 0 {
		h.fail(c, badRequest("km must be a non-negative number"))
		return
	}

	cost, err := h.Predictor.TransportCost(city, mode, km)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "mode": mode, "km": km, "cost": cost})
}

func (h *handler) distance(c *gin.Context) {
	from, to := strings.TrimSpace(c.Query("from")), strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		h.fail(c, badRequest("from and to are required"))
		return
	}
	km, err := h.Predictor.Distance(from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "km": km})
}

// itineraryRequest is the body of POST /v1/itinerary and POST /v1/trips.
type itineraryRequest struct {
	Name   string             `json:"name"`
	Tier   string             `json:"tier"`
	People int                `json:"people"`
	Days   []model.DayRequest `json:"days"`
}

// build prices req. On a failing day the partial itinerary is returned
// alongside the error.
func (h *handler) build(c *gin.Context) (model.Itinerary, error) {
	var req itineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return model.Itinerary{}, badRequest("invalid body: " + err.Error())
	}
	tier := h.DefaultTier
	if req.Tier != "" {
		tier = model.ParseTier(req.Tier)
	}

	it, err := itinerary.Build(h.Predictor, req.Days, tier, req.People, h.Options)
	it.Name = strings.TrimSpace(req.Name)
	return it, err
}

func (h *handler) failBuild(c *gin.Context, it model.Itinerary, err error) {
	body := gin.H{"error": err.Error()}
	var de *itinerary.DayError
	if errors.As(err, &de) {
		body["day"] = de.Day
		body["partial"] = it
	}
	status := statusFor(err)
	_ = c.Error(err)
	c.JSON(status, body)
}

func (h *handler) buildItinerary(c *gin.Context) {
	it, err := h.build(c)
	if err != nil {
		h.failBuild(c, it, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *handler) listTrips(c *gin.Context) {
	if h.Trips == nil {
		h.fail(c, errUnavailable)
		return
	}
	trips, err := h.Trips.ListTrips(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if trips == nil {
		trips = []model.Itinerary{}
	}
	c.JSON(http.StatusOK, trips)
}

func (h *handler) createTrip(c *gin.Context) {
	if h.Trips == nil {
		h.fail(c, errUnavailable)
		return
	}
	it, err := h.build(c)
	if err != nil {
		h.failBuild(c, it, err)
		return
	}
	saved, err := h.Trips.SaveTrip(c.Request.Context(), it)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *handler) getTrip(c *gin.Context) {
	if h.Trips == nil {
		h.fail(c, errUnavailable)
		return
	}
	it, err := h.Trips.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *handler) deleteTrip(c *gin.Context) {
	if h.Trips == nil {
		h.fail(c, errUnavailable)
		return
	}
	if err := h.Trips.DeleteTrip(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) weather(c *gin.Context) {
	if h.Weather == nil {
		h.fail(c, errUnavailable)
		return
	}
	city := c.Param("city")

	if d := c.Query("days"); d != "" {
		days, err := strconv.Atoi(d)
		if err != nil {
			h.fail(c, badRequest("days must be an integer"))
			return
		}
		fc, err := h.Weather.Forecast(c.Request.Context(), city, days)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"city": city, "forecast": fc})
		return
	}

	cur, err := h.Weather.Current(c.Request.Context(), city)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cur)
}

func (h *handler) searchPlaces(c *gin.Context) {
	if h.Places == nil {
		h.fail(c, errUnavailable)
		return
	}
	opts := places.SearchOptions{MaxResults: h.PlacesLimit}
	if t := c.Query("tier"); t != "" {
		opts.PriceLevels = places.PriceLevelsForTier(model.ParseTier(t))
	}
	if city := c.Query("near"); city != "" {
		rec, err := h.Predictor.Runtime().Cities.Lookup(city)
		if err != nil {
			h.fail(c, err)
			return
		}
		opts.Lat, opts.Lng, opts.RadiusM = rec.Lat, rec.Lng, 50000
	}

	res, err := h.Places.Search(c.Request.Context(), c.Query("q"), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	if res == nil {
		res = []places.Place{}
	}
	c.JSON(http.StatusOK, res)
}
