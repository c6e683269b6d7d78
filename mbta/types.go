package mbta

// Envelope is the JSON:API response shape used by the v3 API for
// collection endpoints: primary resources in data, side-loaded
// resources (routes, trips) in included.
type Envelope struct {
	Data     []Resource `json:"data"`
	Included []Resource `json:"included"`
}

// singleEnvelope wraps single-resource endpoints like /stops/{id}.
type singleEnvelope struct {
	Data Resource `json:"data"`
}

// Resource is one JSON:API resource object. Attributes covers the union
// of the fields this pipeline reads from predictions, routes, trips,
// vehicles and stops; fields absent for a given type decode to zero.
type Resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    Attributes              `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships"`
}

// Attributes holds resource attributes. Nullable numeric fields are
// pointers so a JSON null survives the round trip.
type Attributes struct {
	// predictions
	Delay         *float64 `json:"delay,omitempty"`
	Status        string   `json:"status,omitempty"`
	DepartureTime string   `json:"departure_time,omitempty"`
	ArrivalTime   string   `json:"arrival_time,omitempty"`

	// trips and predictions
	DirectionID *int   `json:"direction_id,omitempty"`
	Headsign    string `json:"headsign,omitempty"`

	// routes
	LongName  string `json:"long_name,omitempty"`
	ShortName string `json:"short_name,omitempty"`

	// stops
	Name string `json:"name,omitempty"`
}

// Relationship links a resource to a related resource by id.
type Relationship struct {
	Data *RelationshipData `json:"data"`
}

// RelationshipData identifies the related resource.
type RelationshipData struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// RelatedID returns the id of the named relationship, or "" when the
// relationship is absent or has null data.
func (r Resource) RelatedID(name string) string {
	rel, ok := r.Relationships[name]
	if !ok || rel.Data == nil {
		return ""
	}
	return rel.Data.ID
}

// RouteName prefers the long name and falls back to the short name,
// matching how commuter rail routes are labelled.
func (a Attributes) RouteName() string {
	if a.LongName != "" {
		return a.LongName
	}
	return a.ShortName
}
