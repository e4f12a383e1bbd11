package pass

// BarcodeFormat is the symbology of a barcode.
type BarcodeFormat string

const (
	BarcodeFormatAztec   BarcodeFormat = "PKBarcodeFormatAztec"
	BarcodeFormatCode128 BarcodeFormat = "PKBarcodeFormatCode128"
	BarcodeFormatPDF417  BarcodeFormat = "PKBarcodeFormatPDF417"
	BarcodeFormatQR      BarcodeFormat = "PKBarcodeFormatQR"
)

// DateStyle controls how dates and times of a field are displayed.
type DateStyle string

const (
	DateStyleFull   DateStyle = "PKDateStyleFull"
	DateStyleLong   DateStyle = "PKDateStyleLong"
	DateStyleMedium DateStyle = "PKDateStyleMedium"
	DateStyleNone   DateStyle = "PKDateStyleNone"
	DateStyleShort  DateStyle = "PKDateStyleShort"
)

// NumberStyle controls how a numeric field value is displayed.
type NumberStyle string

const (
	NumberStyleDecimal    NumberStyle = "PKNumberStyleDecimal"
	NumberStylePercent    NumberStyle = "PKNumberStylePercent"
	NumberStyleScientific NumberStyle = "PKNumberStyleScientific"
	NumberStyleSpellOut   NumberStyle = "PKNumberStyleSpellOut"
)

// TextAlignment is the horizontal alignment of a field label and value.
type TextAlignment string

const (
	TextAlignmentCenter  TextAlignment = "PKTextAlignmentCenter"
	TextAlignmentLeft    TextAlignment = "PKTextAlignmentLeft"
	TextAlignmentNatural TextAlignment = "PKTextAlignmentNatural"
	TextAlignmentRight   TextAlignment = "PKTextAlignmentRight"
)

// TransitType is the mode of transport of a boarding pass.
type TransitType string

const (
	TransitTypeAir     TransitType = "PKTransitTypeAir"
	TransitTypeBoat    TransitType = "PKTransitTypeBoat"
	TransitTypeBus     TransitType = "PKTransitTypeBus"
	TransitTypeGeneric TransitType = "PKTransitTypeGeneric"
	TransitTypeTrain   TransitType = "PKTransitTypeTrain"
)

// EventType classifies an event ticket in its semantic tags.
type EventType string

const (
	EventTypeConference      EventType = "PKEventTypeConference"
	EventTypeConvention      EventType = "PKEventTypeConvention"
	EventTypeGeneric         EventType = "PKEventTypeGeneric"
	EventTypeLivePerformance EventType = "PKEventTypeLivePerformance"
	EventTypeMovie           EventType = "PKEventTypeMovie"
	EventTypeSocialGathering EventType = "PKEventTypeSocialGathering"
	EventTypeSports          EventType = "PKEventTypeSports"
	EventTypeWorkshop        EventType = "PKEventTypeWorkshop"
)
