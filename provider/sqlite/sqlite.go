// FILE: lixenwraith/flatconfig/provider/sqlite/sqlite.go

// Package sqlite provides a flatconfig provider that reads settings from a
// key/value table in an SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/lixenwraith/flatconfig"
)

const (
	// DefaultTable is the table read when no other is configured.
	DefaultTable = "settings"

	providerName = "sqlite"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Provider loads "*.db", "*.sqlite" and "*.sqlite3" sources. Each row of the
// table contributes one entry: the key column is used verbatim as the
// configuration key and the value column keeps its SQLite storage type
// (TEXT as string, INTEGER as int64, REAL as float64, NULL as nil).
type Provider struct {
	table     string
	keyColumn string
	valColumn string
}

// Option configures a Provider.
type Option func(*Provider)

// WithTable reads settings from table instead of DefaultTable.
func WithTable(table string) Option {
	return func(p *Provider) { p.table = table }
}

// WithColumns sets the key and value column names (default "key", "value").
func WithColumns(key, value string) Option {
	return func(p *Provider) {
		p.keyColumn = key
		p.valColumn = value
	}
}

// New creates a Provider. Identifiers must be plain SQL names.
func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		table:     DefaultTable,
		keyColumn: "key",
		valColumn: "value",
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, ident := range []string{p.table, p.keyColumn, p.valColumn} {
		if !identifierPattern.MatchString(ident) {
			return nil, fmt.Errorf("%w: invalid SQL identifier %q", flatconfig.ErrInvalidArgument, ident)
		}
	}
	return p, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) CanHandle(source string) bool {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

func (p *Provider) Load(source string) (flatconfig.FlatMap, error) {
	return p.LoadContext(context.Background(), source)
}

// LoadContext reads every row of the settings table.
func (p *Provider) LoadContext(ctx context.Context, source string) (flatconfig.FlatMap, error) {
	// The driver would silently create a missing file
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", flatconfig.ErrConfigNotFound, source)
		}
		return nil, fmt.Errorf("failed to stat config database '%s': %w", source, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config source '%s' is a directory", source)
	}

	dsn, err := readOnlyDSN(source)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening config database '%s': %w", source, err)
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT %s, %s FROM %s", p.keyColumn, p.valColumn, p.table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, p.parseError(source, err)
	}
	defer rows.Close()

	flat := make(flatconfig.FlatMap)
	for rows.Next() {
		var (
			key   string
			value any
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, p.parseError(source, err)
		}
		if key == "" {
			continue
		}
		if b, ok := value.([]byte); ok {
			value = string(b)
		}
		flat[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, p.parseError(source, err)
	}

	return flat, nil
}

// readOnlyDSN builds a read-only SQLite URI for path. The path is made
// absolute and percent-encoded so "?", "#" and "%" in names survive.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config database path '%s': %w", path, err)
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed // Windows volume paths
	}
	u := url.URL{Path: slashed}
	return "file:" + u.EscapedPath() + "?mode=ro", nil
}

// parseError reports an unreadable database the same way the file providers
// report a malformed document.
func (p *Provider) parseError(source string, err error) error {
	return &flatconfig.ParseError{Format: providerName, Path: source, Err: err}
}
