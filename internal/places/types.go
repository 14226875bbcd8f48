package places

// Photo references one place photo resource.
type Photo struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx"`
	HeightPx int    `json:"heightPx"`
}

// Review is one user review of a place.
type Review struct {
	Author       string  `json:"author"`
	Rating       float64 `json:"rating"`
	Text         string  `json:"text"`
	RelativeTime string  `json:"relative_time"`
}

// Place is a point of interest returned by search, details or nearby lookups.
type Place struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address,omitempty"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Rating       float64  `json:"rating,omitempty"`
	RatingCount  int      `json:"rating_count,omitempty"`
	PriceLevel   string   `json:"price_level,omitempty"`
	Types        []string `json:"types,omitempty"`
	Photos       []Photo  `json:"photos,omitempty"`
	Reviews      []Review `json:"reviews,omitempty"`
	Website      string   `json:"website,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	OpeningHours []string `json:"opening_hours,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	Source       string   `json:"source"`
}

// Categories returns the broad categories of p.
func (p Place) Categories() []string {
	return BroadCategory(p.Types)
}

// Raw Places API v1 payloads.

type localizedText struct {
	Text string `json:"text"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type apiPlace struct {
	ID                  string        `json:"id"`
	DisplayName         localizedText `json:"displayName"`
	FormattedAddress    string        `json:"formattedAddress"`
	Location            latLng        `json:"location"`
	Rating              float64       `json:"rating"`
	UserRatingCount     int           `json:"userRatingCount"`
	PriceLevel          string        `json:"priceLevel"`
	Types               []string      `json:"types"`
	Photos              []Photo       `json:"photos"`
	WebsiteURI          string        `json:"websiteUri"`
	NationalPhoneNumber string        `json:"nationalPhoneNumber"`
	EditorialSummary    localizedText `json:"editorialSummary"`
	RegularOpeningHours struct {
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"regularOpeningHours"`
	Reviews []struct {
		Rating                         float64       `json:"rating"`
		Text                           localizedText `json:"text"`
		RelativePublishTimeDescription string        `json:"relativePublishTimeDescription"`
		AuthorAttribution              struct {
			DisplayName string `json:"displayName"`
		} `json:"authorAttribution"`
	} `json:"reviews"`
}

type searchRequest struct {
	TextQuery      string        `json:"textQuery"`
	MaxResultCount int           `json:"maxResultCount,omitempty"`
	PriceLevels    []string      `json:"priceLevels,omitempty"`
	LocationBias   *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type searchResponse struct {
	Places []apiPlace `json:"places"`
}

func (a apiPlace) toPlace() Place {
	p := Place{
		ID:           a.ID,
		Name:         a.DisplayName.Text,
		Address:      a.FormattedAddress,
		Lat:          a.Location.Latitude,
		Lng:          a.Location.Longitude,
		Rating:       a.Rating,
		RatingCount:  a.UserRatingCount,
		PriceLevel:   a.PriceLevel,
		Types:        a.Types,
		Photos:       a.Photos,
		Website:      a.WebsiteURI,
		Phone:        a.NationalPhoneNumber,
		OpeningHours: a.RegularOpeningHours.WeekdayDescriptions,
		Summary:      a.EditorialSummary.Text,
		Source:       "google",
	}
	for _, r := range a.Reviews {
		p.Reviews = append(p.Reviews, Review{
			Author:       r.AuthorAttribution.DisplayName,
			Rating:       r.Rating,
			Text:         r.Text.Text,
			RelativeTime: r.RelativePublishTimeDescription,
		})
	}
	return p
}
