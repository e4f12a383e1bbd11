package pass

// currentFormatVersion is the only format version wallets accept.
const currentFormatVersion = 1

// New creates a descriptor with the keys every pass must carry.
func New(description, organizationName, passTypeIdentifier, serialNumber string) *Pass {
	return &Pass{
		Description:        description,
		FormatVersion:      currentFormatVersion,
		OrganizationName:   organizationName,
		PassTypeIdentifier: passTypeIdentifier,
		SerialNumber:       serialNumber,
	}
}

// NewBarcode creates a barcode entry.
func NewBarcode(format BarcodeFormat, message, messageEncoding string) Barcode {
	return Barcode{
		Format:          format,
		Message:         message,
		MessageEncoding: messageEncoding,
	}
}

// NewTextField creates a field holding a string value.
func NewTextField(key, value string) Field {
	return Field{Key: key, Value: Text(value)}
}

// NewNumberField creates a field holding a numeric value.
func NewNumberField(key string, value float64) Field {
	return Field{Key: key, Value: Number(value)}
}

// AddBarcode appends b to Barcodes. The first barcode is also mirrored into
// the legacy Barcode key so older wallets render something.
func (p *Pass) AddBarcode(b Barcode) {
	if len(p.Barcodes) == 0 {
		legacy := b
		p.Barcode = &legacy
	}

	p.Barcodes = append(p.Barcodes, b)
}

// AddLocation appends a relevant location.
func (p *Pass) AddLocation(l Location) {
	p.Locations = append(p.Locations, l)
}

// AddBeacon appends a relevant beacon.
func (p *Pass) AddBeacon(b Beacon) {
	p.Beacons = append(p.Beacons, b)
}

// SetUserInfo stores an app-specific value under key.
func (p *Pass) SetUserInfo(key string, value any) {
	if p.UserInfo == nil {
		p.UserInfo = make(map[string]any)
	}

	p.UserInfo[key] = value
}

// AddHeaderField appends a header field.
func (d *Details) AddHeaderField(f Field) {
	d.HeaderFields = append(d.HeaderFields, f)
}

// AddPrimaryField appends a primary field.
func (d *Details) AddPrimaryField(f Field) {
	d.PrimaryFields = append(d.PrimaryFields, f)
}

// AddSecondaryField appends a secondary field.
func (d *Details) AddSecondaryField(f Field) {
	d.SecondaryFields = append(d.SecondaryFields, f)
}

// AddAuxiliaryField appends an auxiliary field.
func (d *Details) AddAuxiliaryField(f Field) {
	d.AuxiliaryFields = append(d.AuxiliaryFields, f)
}

// AddBackField appends a field shown on the back of the pass.
func (d *Details) AddBackField(f Field) {
	d.BackFields = append(d.BackFields, f)
}
