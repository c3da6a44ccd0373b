package config

// PlanFileNames are the recognized plan file names, in lookup order.
var PlanFileNames = []string{"delegator.yaml", "delegator.yml"}

// Version is reported by the CLI.
// Can be set at build time using: -ldflags "-X github.com/funvibe/delegator/internal/config.Version=..."
var Version = "dev"

// Built-in marker names as written in plan files
const (
	RuntimeTypeMarker      = "RuntimeType"
	IgnoreForBindingMarker = "IgnoreForBinding"
	ArgumentMarker         = "Argument"
	ThisMarker             = "This"
	AllArgumentsMarker     = "AllArguments"
)

// Default provider names
const (
	NoDefaults           = "none"
	NextUnboundDefaults  = "next-unbound"
	DefaultProviderValue = NoDefaults
)

// Ambiguity resolver names
const (
	MostSpecificTypeResolver = "most-specific-type"
	ParameterLengthResolver  = "parameter-length"
)

// RootTypeName is the implicit supertype of every reference type.
const RootTypeName = "lang.Object"
