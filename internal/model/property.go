package model

// Property listing type constants.
const (
	PropertyTypeApartment = "apartment"
	PropertyTypeHouse     = "house"
	PropertyTypeLand      = "land"
	PropertyTypeOffice    = "office"
)

// Property listing status constants.
const (
	PropertyStatusAvailable = "available"
	PropertyStatusPending   = "pending"
	PropertyStatusSold      = "sold"
)

// Location is a geographic area a property belongs to.
type Location struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	District string `json:"district"`
}

// Property is a single real-estate listing as returned by the backend.
type Property struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Price is in VND.
	Price float64 `json:"price"`

	// Area is in square meters.
	Area float64 `json:"area"`

	Address  string   `json:"address"`
	Type     string   `json:"type"`
	Status   string   `json:"status"`
	Location Location `json:"location"`

	// Images holds URLs of listing photos.
	Images []string `json:"images,omitempty"`

	// AgentName is the listing agent's display name.
	AgentName string `json:"agentName,omitempty"`

	CreatedAt Timestamp `json:"createdAt"`
}

// PropertyQuery holds the search criteria for the listing search endpoint.
// Zero values mean "unfiltered".
type PropertyQuery struct {
	Query      string
	LocationID string
	Type       string
	MinPrice   float64
	MaxPrice   float64
	MinArea    float64
	Page       int
	PageSize   int
}

// Favorite is a property the user bookmarked, cached locally so the
// favorites screen renders without a round-trip.
type Favorite struct {
	PropertyID string    `json:"property_id" db:"property_id"`
	Title      string    `json:"title" db:"title"`
	Price      float64   `json:"price" db:"price"`
	Address    string    `json:"address" db:"address"`
	SavedAt    Timestamp `json:"saved_at" db:"saved_at"`
}

// SavedSearch is a named set of search criteria the user stored locally.
type SavedSearch struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Query      string    `json:"query" db:"query"`
	LocationID string    `json:"location_id" db:"location_id"`
	Type       string    `json:"type" db:"type"`
	MinPrice   float64   `json:"min_price" db:"min_price"`
	MaxPrice   float64   `json:"max_price" db:"max_price"`
	CreatedAt  Timestamp `json:"created_at" db:"created_at"`
}
