package weather

import "time"

// Conditions is one weather description entry.
type Conditions struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// mainBlock is the temperature/humidity block shared by both endpoints.
type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

// currentResponse is the raw /weather payload.
type currentResponse struct {
	Name    string       `json:"name"`
	Dt      int64        `json:"dt"`
	Main    mainBlock    `json:"main"`
	Weather []Conditions `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

// forecastResponse is the raw /forecast payload of 3-hour samples.
type forecastResponse struct {
	List []struct {
		Dt      int64        `json:"dt"`
		DtTxt   string       `json:"dt_txt"`
		Main    mainBlock    `json:"main"`
		Weather []Conditions `json:"weather"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// Current is the parsed current weather for a city.
type Current struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temp        float64   `json:"temp"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	ObservedAt  time.Time `json:"observed_at"`
}

// DailySummary folds one calendar day of forecast samples.
type DailySummary struct {
	Date        string  `json:"date"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Description string  `json:"description"`
	Samples     int     `json:"samples"`
}
