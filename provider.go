package africapayments

// Provider identifies a payment rail. The set is closed; new rails require an
// SDK release.
type Provider string

const (
	ProviderMpesa    Provider = "mpesa"
	ProviderMTN      Provider = "mtn"
	ProviderVodafone Provider = "vodafone"
	ProviderAirtel   Provider = "airtel"
	ProviderBank     Provider = "bank"
	ProviderCard     Provider = "card"
)

var providerDisplayNames = map[Provider]string{
	ProviderMpesa:    "M-Pesa",
	ProviderMTN:      "MTN Mobile Money",
	ProviderVodafone: "Vodafone Cash",
	ProviderAirtel:   "Airtel Money",
	ProviderBank:     "Bank Transfer",
	ProviderCard:     "Card Payment",
}

// DisplayName returns the human-readable name for the provider, falling back
// to the raw value for unknown providers.
func (p Provider) DisplayName() string {
	if name, ok := providerDisplayNames[p]; ok {
		return name
	}
	return string(p)
}

// ProviderConfig describes how a single provider is set up for a merchant.
type ProviderConfig struct {
	Provider Provider       `json:"provider"`
	Enabled  bool           `json:"enabled"`
	Config   map[string]any `json:"config,omitempty"`
}

// NewProviderConfig returns a ProviderConfig with the provider enabled.
func NewProviderConfig(p Provider) ProviderConfig {
	return ProviderConfig{Provider: p, Enabled: true}
}

// DisplayName returns the human-readable name of the configured provider.
func (pc ProviderConfig) DisplayName() string {
	return pc.Provider.DisplayName()
}
