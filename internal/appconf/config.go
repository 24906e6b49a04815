package appconf

// Environment describes the runtime environment of the server.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment converts the -env command line flag value to an
// Environment. Unknown values default to Development.
func EnvFlagToEnvironment(envFlag string) Environment {
	switch envFlag {
	case "test":
		return Test
	case "production":
		return Production
	default:
		return Development
	}
}

// DirectionsConfig holds the settings for the external directions and
// optimization provider. When Disabled is true, or APIKey is empty, routes
// are synthesized locally instead of calling out.
type DirectionsConfig struct {
	BaseURL        string
	APIKey         string
	Disabled       bool
	TimeoutSeconds int
}

// Config holds the application-wide configuration.
type Config struct {
	Port       int
	Env        Environment
	ApiKeys    []string
	RateLimit  int
	Verbose    bool
	DataPath   string
	Directions DirectionsConfig
}
