package enums

// Defaults applied when a product is added without explicit customization.
// The upstream catalog owns the full set of valid values; the cart treats
// these as opaque strings beyond the defaults.
const (
	DefaultSizeOption = "M"
	DefaultIceOption  = "Chung"
	DefaultSugarLevel = "100%"
)

// SessionStatus describes the auth gate the cart core keys off.
type SessionStatus string

const (
	SessionAuthenticated SessionStatus = "authenticated"
	SessionAnonymous     SessionStatus = "anonymous"
)

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionAuthenticated, SessionAnonymous:
		return true
	}
	return false
}
