package gearbox

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultConfigFile is the application config file read when none is given.
	DefaultConfigFile = "development.ini"

	// ScriptLocation is the directory holding the migration environment.
	// Migration files live in its versions subdirectory.
	ScriptLocation = "migration"

	// DefaultUpgradeVersion upgrades to the newest available revision.
	DefaultUpgradeVersion = "head"

	// DefaultDowngradeVersion steps back a single revision.
	DefaultDowngradeVersion = "-1"

	configSection = "app:main"
)

// Subcommand is one of the closed set of migrate commands.
type Subcommand int

// The migrate commands.
const (
	Create Subcommand = iota + 1
	DBVersion
	Upgrade
	Downgrade
	Test
)

var subcommandNames = map[Subcommand]string{
	Create:    "create",
	DBVersion: "db_version",
	Upgrade:   "upgrade",
	Downgrade: "downgrade",
	Test:      "test",
}

// Subcommands returns all commands in the order they are documented.
func Subcommands() []Subcommand {
	return []Subcommand{Create, DBVersion, Upgrade, Downgrade, Test}
}

func (s Subcommand) String() string {
	if name, ok := subcommandNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSubcommand maps a command name like "db_version" to its Subcommand.
func ParseSubcommand(name string) (Subcommand, error) {
	for sub, n := range subcommandNames {
		if n == strings.ToLower(name) {
			return sub, nil
		}
	}
	return 0, errors.Errorf("invalid command %q", name)
}

// An Invocation is a single migrate request built from the command line.
type Invocation struct {
	ConfigFile     string
	ScriptLocation string
	Subcommand     Subcommand

	// Argument is the migration name for Create and the target revision for
	// Upgrade and Downgrade. It is empty for all other commands.
	Argument string
}

// NewInvocation returns an Invocation for sub with the default config file,
// the fixed script location and the command's default argument.
func NewInvocation(sub Subcommand) Invocation {
	inv := Invocation{
		ConfigFile:     DefaultConfigFile,
		ScriptLocation: ScriptLocation,
		Subcommand:     sub,
	}
	switch sub {
	case Upgrade:
		inv.Argument = DefaultUpgradeVersion
	case Downgrade:
		inv.Argument = DefaultDowngradeVersion
	}
	return inv
}

// Config returns the engine configuration for this invocation.
func (inv Invocation) Config() Config {
	return Config{
		File:           inv.ConfigFile,
		Section:        configSection,
		ScriptLocation: inv.ScriptLocation,
	}
}
