package places

// Place is a text-search result. Import candidates posted by the admin UI
// use the same shape.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
	Types            []string `json:"types"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	BusinessStatus   string   `json:"business_status,omitempty"`
	Photos           []Photo  `json:"photos,omitempty"`
}

type Geometry struct {
	Location LatLng `json:"location"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// TextSearchRequest describes one page of a text search. Location and
// Radius are optional biasing hints.
type TextSearchRequest struct {
	Query     string
	Location  *LatLng
	Radius    int // metres
	PageToken string
	// Paginate marks a caller that will follow next_page_token. Such
	// requests bypass the cache so the token they get back is fresh.
	Paginate bool
}

type TextSearchResponse struct {
	Results       []Place `json:"results"`
	NextPageToken string  `json:"next_page_token,omitempty"`
	Status        string  `json:"status"`
	ErrorMessage  string  `json:"error_message,omitempty"`
}

type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type TimeOfWeek struct {
	Day  int    `json:"day"`
	Time string `json:"time"` // "HHMM"
}

type Period struct {
	Open  TimeOfWeek  `json:"open"`
	Close *TimeOfWeek `json:"close,omitempty"` // absent for 24h places
}

type OpeningHours struct {
	OpenNow     bool     `json:"open_now"`
	Periods     []Period `json:"periods"`
	WeekdayText []string `json:"weekday_text"`
}

type EditorialSummary struct {
	Overview string `json:"overview"`
}

type Review struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
}

// Details is the place-details payload; it repeats the Place fields.
type Details struct {
	Place
	FormattedPhoneNumber     string             `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string             `json:"international_phone_number,omitempty"`
	Website                  string             `json:"website,omitempty"`
	URL                      string             `json:"url,omitempty"`
	AddressComponents        []AddressComponent `json:"address_components,omitempty"`
	OpeningHours             *OpeningHours      `json:"opening_hours,omitempty"`
	EditorialSummary         *EditorialSummary  `json:"editorial_summary,omitempty"`
	Reviews                  []Review           `json:"reviews,omitempty"`
}

// Component returns the long name of the first component carrying typ.
func (d *Details) Component(typ string) (string, bool) {
	for _, c := range d.AddressComponents {
		for _, t := range c.Types {
			if t == typ {
				return c.LongName, true
			}
		}
	}
	return "", false
}

// ShortComponent is Component returning the short name.
func (d *Details) ShortComponent(typ string) (string, bool) {
	for _, c := range d.AddressComponents {
		for _, t := range c.Types {
			if t == typ {
				return c.ShortName, true
			}
		}
	}
	return "", false
}

type detailsResponse struct {
	Result       Details `json:"result"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string   `json:"formatted_address"`
		Geometry         Geometry `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}
