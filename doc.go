// FILE: lixenwraith/flatconfig/doc.go

// Package flatconfig loads configuration from JSON, XML, YAML and custom
// providers into a single flat key/value namespace addressed by dotted paths.
//
// Features:
//   - Format providers selected by file extension (.json, .xml, .yaml/.yml)
//   - Optional TOML, environment, command-line, in-memory and SQLite providers
//   - Last-writer-wins merging across any number of sources
//   - Typed lookups with fallback to a default on conversion failure
//   - Thread-safe operations using a single sync.RWMutex
//   - Struct scanning of sections with mapstructure
//   - Builder pattern for easy initialization
//
// Key paths:
// Nested members are joined with ".", sequence elements get an "[i]" suffix
// on the preceding segment:
//
//	{"database": {"servers": [{"host": "a"}]}}  ->  database.servers[0].host = "a"
//
// For XML the root element is not part of the path, and elements of the form
// <setting name="K" value="V"/> contribute "parent.K" = "V".
//
// Quick Start:
//
//	svc, err := flatconfig.NewBuilderFor(flatconfig.New()).
//	    LoadFrom("appsettings.json", "overrides.xml").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := svc.String("database.connection.server", "localhost")
//	port, _ := flatconfig.GetValue(svc, "database.connection.port", 5432)
//
// Errors:
// Loads fail loudly with ErrInvalidArgument, ErrNoSuitableProvider,
// ErrConfigNotFound or a *ParseError (matching ErrParse). A failed load
// never changes the configuration. Typed lookups are the exception: a value
// that cannot be converted is logged and the default is returned.
//
// Thread Safety:
// All Service operations are thread-safe. Loads, writes and registrations
// are serialised; reads share the lock.
package flatconfig
