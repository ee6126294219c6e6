package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ConceptCount is the fixed number of itinerary concepts generated per request.
// Stage B fans out once per concept and Stage C reads concept 0, so every
// stage depends on this value.
const ConceptCount = 3

// Destination is where a trip takes place.
type Destination struct {
	City    string `json:"city" jsonschema_description:"City name"`
	State   string `json:"state,omitempty" jsonschema_description:"State or province, if applicable"`
	Country string `json:"country" jsonschema_description:"Country name"`
}

func (d Destination) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.City, validation.Required),
		validation.Field(&d.Country, validation.Required),
	)
}

// TravelerProfile describes who is travelling and how.
type TravelerProfile struct {
	Type          string `json:"type" jsonschema_description:"Type of traveler: Solo, Couple, Family, Friends, Business"`
	GoalsFromTrip string `json:"goals_from_trip" jsonschema_description:"What the traveler hopes to achieve or experience"`
	PaceOfTrip    string `json:"pace_of_trip" jsonschema_description:"Trip pace: Relaxed, Moderate, Fast-paced, Mixed"`
}

func (p TravelerProfile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Type, validation.Required),
		validation.Field(&p.GoalsFromTrip, validation.Required),
		validation.Field(&p.PaceOfTrip, validation.Required),
	)
}

// BudgetOverview is the budget tier of a concept.
type BudgetOverview struct {
	BudgetPreference string `json:"budget_preference" jsonschema_description:"Budget category: Budget, Mid-range, or Luxury"`
	MaxBudget        string `json:"max_budget,omitempty" jsonschema_description:"Approximate total budget in the traveler's home currency"`
}

func (b BudgetOverview) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.BudgetPreference, validation.Required),
	)
}

// Concept is a Stage A itinerary skeleton.
type Concept struct {
	ID              string          `json:"id" jsonschema_description:"Unique identifier for this itinerary"`
	Title           string          `json:"title" jsonschema_description:"Catchy, descriptive title for the itinerary"`
	Theme           string          `json:"theme" jsonschema_description:"Brief description of what makes this itinerary unique"`
	Duration        string          `json:"duration" jsonschema_description:"Trip duration in format 'X days'"`
	Destination     Destination     `json:"destination"`
	TravelerProfile TravelerProfile `json:"traveler_profile"`
	BudgetOverview  BudgetOverview  `json:"budget_overview"`
}

func (c Concept) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Theme, validation.Required),
		validation.Field(&c.Duration, validation.Required),
		validation.Field(&c.Destination),
		validation.Field(&c.TravelerProfile),
		validation.Field(&c.BudgetOverview),
	)
}

// ConceptSet is the Stage A output envelope.
type ConceptSet struct {
	Itineraries []Concept `json:"itineraries" jsonschema:"minItems=3,maxItems=3"`
}

// Validate rejects anything but exactly ConceptCount concepts; the set is
// never truncated or padded.
func (s ConceptSet) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Itineraries, validation.Required, validation.Length(ConceptCount, ConceptCount)),
	)
}

// ScheduleDetails holds the practical details of a schedule item.
type ScheduleDetails struct {
	Location       string `json:"location" jsonschema_description:"Specific location or address"`
	CostEstimation string `json:"cost_estimation" jsonschema_description:"Cost estimate, e.g. '15-25', 'Free', '50+', in the traveler's home currency"`
	OtherDetails   string `json:"other_details,omitempty" jsonschema_description:"Additional relevant information"`
}

func (d ScheduleDetails) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Location, validation.Required),
		validation.Field(&d.CostEstimation, validation.Required),
	)
}

// ScheduleItem is one slot in a day.
type ScheduleItem struct {
	TimeSlot    string          `json:"time_slot" jsonschema_description:"Time of day: Morning, Afternoon, Evening, Late Evening"`
	Type        string          `json:"type" jsonschema_description:"Type of activity: Activity, Meal, Transport, Rest"`
	Title       string          `json:"title" jsonschema_description:"Name or title of the activity or meal"`
	Description string          `json:"description" jsonschema_description:"Detailed description (2-3 sentences)"`
	Details     ScheduleDetails `json:"details"`
}

func (i ScheduleItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.TimeSlot, validation.Required),
		validation.Field(&i.Type, validation.Required),
		validation.Field(&i.Title, validation.Required),
		validation.Field(&i.Description, validation.Required),
		validation.Field(&i.Details),
	)
}

// MinScheduleItems is the enforced floor of items per day.
const MinScheduleItems = 2

// DayPlan is one day of a Stage B plan.
type DayPlan struct {
	Day      int            `json:"day" jsonschema:"minimum=1" jsonschema_description:"Day number (1, 2, 3, etc.)"`
	Theme    string         `json:"theme" jsonschema_description:"Theme or focus for this specific day"`
	Schedule []ScheduleItem `json:"schedule" jsonschema:"minItems=2"`
}

func (d DayPlan) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Day, validation.Required, validation.Min(1)),
		validation.Field(&d.Theme, validation.Required),
		validation.Field(&d.Schedule, validation.Required, validation.Length(MinScheduleItems, 0)),
	)
}

// DailyPlanSet is the Stage B output envelope for a single concept.
type DailyPlanSet struct {
	DailyPlan []DayPlan `json:"daily_plan" jsonschema:"minItems=1"`
}

func (s DailyPlanSet) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.DailyPlan, validation.Required, validation.Length(1, 0)),
	)
}

// Accommodation is a suggested place to stay.
type Accommodation struct {
	Name           string `json:"name" jsonschema_description:"Name of the accommodation"`
	ContactDetails string `json:"contact_details,omitempty" jsonschema_description:"Phone number and/or website"`
	Address        string `json:"address" jsonschema_description:"Full address of the accommodation"`
}

func (a Accommodation) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Address, validation.Required),
	)
}

// Logistics is shared by every itinerary of one request.
type Logistics struct {
	AccommodationDetails []Accommodation `json:"accommodation_details,omitempty"`
	TransportOptions     string          `json:"transport_options,omitempty" jsonschema_description:"Transportation options"`
	BookingDetails       string          `json:"booking_details,omitempty" jsonschema_description:"Booking preferences or requirements"`
}

func (l Logistics) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.AccommodationDetails),
	)
}

// LogisticsSet is the Stage C output envelope.
type LogisticsSet struct {
	Logistics Logistics `json:"logistics"`
}

func (s LogisticsSet) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Logistics),
	)
}

// ComposedItinerary is Concept + daily plan + shared logistics.
type ComposedItinerary struct {
	Concept
	DailyPlan []DayPlan `json:"daily_plan"`
	Logistics Logistics `json:"logistics"`
}
