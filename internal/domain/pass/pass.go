package pass

// Pass is the top-level pass.json document.
type Pass struct {
	// AppLaunchURL is handed to the associated app when the pass launches it.
	AppLaunchURL string `json:"appLaunchURL,omitempty"`
	// AssociatedStoreIdentifiers lists store item identifiers of associated apps.
	AssociatedStoreIdentifiers []float64 `json:"associatedStoreIdentifiers,omitempty"`
	// AuthenticationToken is presented to the web service.
	AuthenticationToken string `json:"authenticationToken,omitempty"`
	// BackgroundColor is a CSS-style RGB triple.
	BackgroundColor string `json:"backgroundColor,omitempty"`
	// Barcode is the legacy single barcode; prefer Barcodes.
	Barcode *Barcode `json:"barcode,omitempty"`
	// Barcodes are tried in order, the first supported one is shown.
	Barcodes []Barcode `json:"barcodes,omitempty"`
	// Beacons mark locations where the pass is relevant.
	Beacons []Beacon `json:"beacons,omitempty"`
	// BoardingPass holds the fields of a boarding pass.
	BoardingPass *Details `json:"boardingPass,omitempty"`
	// Coupon holds the fields of a coupon.
	Coupon *Details `json:"coupon,omitempty"`
	// Description is used by accessibility technologies.
	Description string `json:"description"`
	// EventTicket holds the fields of an event ticket.
	EventTicket *Details `json:"eventTicket,omitempty"`
	// ExpirationDate is a W3C date after which the pass is void.
	ExpirationDate string `json:"expirationDate,omitempty"`
	// ForegroundColor is a CSS-style RGB triple.
	ForegroundColor string `json:"foregroundColor,omitempty"`
	// FormatVersion of the pass file format, always 1.
	FormatVersion int `json:"formatVersion,omitempty"`
	// Generic holds the fields of a generic pass.
	Generic *Details `json:"generic,omitempty"`
	// GroupingIdentifier groups related event tickets and boarding passes.
	GroupingIdentifier string `json:"groupingIdentifier,omitempty"`
	// LabelColor is a CSS-style RGB triple for field labels.
	LabelColor string `json:"labelColor,omitempty"`
	// Locations where the pass is relevant.
	Locations []Location `json:"locations,omitempty"`
	// LogoText is displayed next to the logo.
	LogoText string `json:"logoText,omitempty"`
	// MaxDistance in meters from a location for the pass to be relevant.
	MaxDistance float64 `json:"maxDistance,omitempty"`
	// NFC carries the near-field payload.
	NFC *NFC `json:"nfc,omitempty"`
	// OrganizationName is shown on the lock screen.
	OrganizationName string `json:"organizationName"`
	// PassTypeIdentifier must match the signing certificate.
	PassTypeIdentifier string `json:"passTypeIdentifier"`
	// RelevantDate is a W3C date when the pass becomes relevant.
	RelevantDate string `json:"relevantDate,omitempty"`
	// SerialNumber identifies the pass within its pass type.
	SerialNumber string `json:"serialNumber"`
	// StoreCard holds the fields of a store card.
	StoreCard *Details `json:"storeCard,omitempty"`
	// SuppressStripShine disables the strip image shine effect.
	SuppressStripShine *bool `json:"suppressStripShine,omitempty"`
	// TeamIdentifier of the developer team that owns the certificate.
	TeamIdentifier string `json:"teamIdentifier,omitempty"`
	// UserInfo is an arbitrary JSON object for the associated app.
	UserInfo map[string]any `json:"userInfo,omitempty"`
	// Voided marks the pass as no longer valid.
	Voided *bool `json:"voided,omitempty"`
	// WebServiceURL is the base URL of the update web service.
	WebServiceURL string `json:"webServiceURL,omitempty"`
}

// Barcode describes one barcode rendered on the pass.
type Barcode struct {
	AltText         string        `json:"altText,omitempty"`
	Format          BarcodeFormat `json:"format"`
	Message         string        `json:"message"`
	MessageEncoding string        `json:"messageEncoding"`
}

// Beacon is a Bluetooth LE beacon marking a relevant place.
type Beacon struct {
	Major         *int64 `json:"major,omitempty"`
	Minor         *int64 `json:"minor,omitempty"`
	ProximityUUID string `json:"proximityUUID"`
	RelevantText  string `json:"relevantText,omitempty"`
}

// Location is a geographic point where the pass is relevant.
type Location struct {
	Altitude     *float64 `json:"altitude,omitempty"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	RelevantText string   `json:"relevantText,omitempty"`
}

// NFC is the near-field communication payload.
type NFC struct {
	EncryptionPublicKey string `json:"encryptionPublicKey,omitempty"`
	Message             string `json:"message"`
}

// Details groups the fields of one pass style.
// TransitType is only meaningful, and required, for boarding passes.
type Details struct {
	AuxiliaryFields []Field     `json:"auxiliaryFields,omitempty"`
	BackFields      []Field     `json:"backFields,omitempty"`
	HeaderFields    []Field     `json:"headerFields,omitempty"`
	PrimaryFields   []Field     `json:"primaryFields,omitempty"`
	SecondaryFields []Field     `json:"secondaryFields,omitempty"`
	TransitType     TransitType `json:"transitType,omitempty"`
}

// Field is a single key/label/value on the pass.
type Field struct {
	AttributedValue   *FieldValue   `json:"attributedValue,omitempty"`
	ChangeMessage     string        `json:"changeMessage,omitempty"`
	CurrencyCode      string        `json:"currencyCode,omitempty"`
	DataDetectorTypes []string      `json:"dataDetectorTypes,omitempty"`
	DateStyle         DateStyle     `json:"dateStyle,omitempty"`
	IgnoresTimeZone   *bool         `json:"ignoresTimeZone,omitempty"`
	IsRelative        *bool         `json:"isRelative,omitempty"`
	Key               string        `json:"key"`
	Label             string        `json:"label,omitempty"`
	NumberStyle       NumberStyle   `json:"numberStyle,omitempty"`
	Semantics         *Semantics    `json:"semantics,omitempty"`
	TextAlignment     TextAlignment `json:"textAlignment,omitempty"`
	TimeStyle         DateStyle     `json:"timeStyle,omitempty"`
	Value             FieldValue    `json:"value"`
}

// Semantics are machine-readable tags describing a field.
type Semantics struct {
	AirlineCode                    string                `json:"airlineCode,omitempty"`
	ArtistIDs                      []string              `json:"artistIDs,omitempty"`
	AwayTeamAbbreviation           string                `json:"awayTeamAbbreviation,omitempty"`
	AwayTeamLocation               string                `json:"awayTeamLocation,omitempty"`
	AwayTeamName                   string                `json:"awayTeamName,omitempty"`
	Balance                        *CurrencyAmount       `json:"balance,omitempty"`
	BoardingGroup                  string                `json:"boardingGroup,omitempty"`
	BoardingSequenceNumber         string                `json:"boardingSequenceNumber,omitempty"`
	CarNumber                      string                `json:"carNumber,omitempty"`
	ConfirmationNumber             string                `json:"confirmationNumber,omitempty"`
	CurrentArrivalDate             string                `json:"currentArrivalDate,omitempty"`
	CurrentBoardingDate            string                `json:"currentBoardingDate,omitempty"`
	CurrentDepartureDate           string                `json:"currentDepartureDate,omitempty"`
	DepartureAirportCode           string                `json:"departureAirportCode,omitempty"`
	DepartureAirportName           string                `json:"departureAirportName,omitempty"`
	DepartureGate                  string                `json:"departureGate,omitempty"`
	DepartureLocation              *Location             `json:"departureLocation,omitempty"`
	DepartureLocationDescription   string                `json:"departureLocationDescription,omitempty"`
	DeparturePlatform              string                `json:"departurePlatform,omitempty"`
	DepartureStationName           string                `json:"departureStationName,omitempty"`
	DepartureTerminal              string                `json:"departureTerminal,omitempty"`
	DestinationAirportCode         string                `json:"destinationAirportCode,omitempty"`
	DestinationAirportName         string                `json:"destinationAirportName,omitempty"`
	DestinationGate                string                `json:"destinationGate,omitempty"`
	DestinationLocation            *Location             `json:"destinationLocation,omitempty"`
	DestinationLocationDescription string                `json:"destinationLocationDescription,omitempty"`
	DestinationPlatform            string                `json:"destinationPlatform,omitempty"`
	DestinationStationName         string                `json:"destinationStationName,omitempty"`
	DestinationTerminal            string                `json:"destinationTerminal,omitempty"`
	Duration                       *float64              `json:"duration,omitempty"`
	EventEndDate                   string                `json:"eventEndDate,omitempty"`
	EventName                      string                `json:"eventName,omitempty"`
	EventStartDate                 string                `json:"eventStartDate,omitempty"`
	EventType                      EventType             `json:"eventType,omitempty"`
	FlightCode                     string                `json:"flightCode,omitempty"`
	FlightNumber                   *float64              `json:"flightNumber,omitempty"`
	Genre                          string                `json:"genre,omitempty"`
	HomeTeamAbbreviation           string                `json:"homeTeamAbbreviation,omitempty"`
	HomeTeamLocation               string                `json:"homeTeamLocation,omitempty"`
	HomeTeamName                   string                `json:"homeTeamName,omitempty"`
	LeagueAbbreviation             string                `json:"leagueAbbreviation,omitempty"`
	LeagueName                     string                `json:"leagueName,omitempty"`
	MembershipProgramName          string                `json:"membershipProgramName,omitempty"`
	MembershipProgramNumber        string                `json:"membershipProgramNumber,omitempty"`
	OriginalArrivalDate            string                `json:"originalArrivalDate,omitempty"`
	OriginalBoardingDate           string                `json:"originalBoardingDate,omitempty"`
	OriginalDepartureDate          string                `json:"originalDepartureDate,omitempty"`
	PassengerName                  *PersonNameComponents `json:"passengerName,omitempty"`
	PerformerNames                 []string              `json:"performerNames,omitempty"`
	PriorityStatus                 string                `json:"priorityStatus,omitempty"`
	Seats                          []Seat                `json:"seats,omitempty"`
	SecurityScreening              string                `json:"securityScreening,omitempty"`
	SilenceRequested               *bool                 `json:"silenceRequested,omitempty"`
	SportName                      string                `json:"sportName,omitempty"`
	TotalPrice                     *CurrencyAmount       `json:"totalPrice,omitempty"`
	TransitProvider                string                `json:"transitProvider,omitempty"`
	TransitStatus                  string                `json:"transitStatus,omitempty"`
	TransitStatusReason            string                `json:"transitStatusReason,omitempty"`
	VehicleName                    string                `json:"vehicleName,omitempty"`
	VehicleNumber                  string                `json:"vehicleNumber,omitempty"`
	VehicleType                    string                `json:"vehicleType,omitempty"`
	VenueEntrance                  string                `json:"venueEntrance,omitempty"`
	VenueLocation                  *Location             `json:"venueLocation,omitempty"`
	VenueName                      string                `json:"venueName,omitempty"`
	VenuePhoneNumber               string                `json:"venuePhoneNumber,omitempty"`
	VenueRoom                      string                `json:"venueRoom,omitempty"`
}

// CurrencyAmount is an amount of money with its ISO 4217 code.
type CurrencyAmount struct {
	Amount       string `json:"amount,omitempty"`
	CurrencyCode string `json:"currencyCode,omitempty"`
}

// PersonNameComponents is a structured person name.
type PersonNameComponents struct {
	FamilyName             string                `json:"familyName,omitempty"`
	GivenName              string                `json:"givenName,omitempty"`
	MiddleName             string                `json:"middleName,omitempty"`
	NamePrefix             string                `json:"namePrefix,omitempty"`
	NameSuffix             string                `json:"nameSuffix,omitempty"`
	Nickname               string                `json:"nickname,omitempty"`
	PhoneticRepresentation *PersonNameComponents `json:"phoneticRepresentation,omitempty"`
}

// Seat describes one seat of a ticket.
type Seat struct {
	SeatDescription string `json:"seatDescription,omitempty"`
	SeatIdentifier  string `json:"seatIdentifier,omitempty"`
	SeatNumber      string `json:"seatNumber,omitempty"`
	SeatRow         string `json:"seatRow,omitempty"`
	SeatSection     string `json:"seatSection,omitempty"`
	SeatType        string `json:"seatType,omitempty"`
}
