package manager

// Defaults applied when corresponding RegistryConfig fields are unset.
const (
	defaultFramework     = "native"
	defaultInfoCacheSize = 256
)

// RegistryConfig encapsulates all tunables for Registry construction.
type RegistryConfig struct {
	// Frameworks maps lower-case framework keys to backend factories.
	Frameworks map[string]Factory
	// DefaultFramework is used when a create config has no "framework" key.
	DefaultFramework string
	// InfoCacheSize bounds how many fitted models keep cached diagnostics.
	InfoCacheSize int
	// Publisher receives lifecycle events. Defaults to a no-op publisher.
	Publisher EventPublisher
}
