package provider

// ProviderCapabilities describes how a catalog backend behaves beyond the
// Provider contract.
type ProviderCapabilities struct {
	RequiresAuth bool // an API key must be passed to Configure
	Localized    bool // episode titles follow the requested language
	Specials     bool // season 0 episodes are part of the catalog
}
