package service

// QRCodeService defines the interface for QR code generation.
type QRCodeService interface {
	// GenerateCountryQR generates a QR code PNG encoding the public share
	// link of a country's detail page.
	GenerateCountryQR(countryCode string) ([]byte, error)
}
