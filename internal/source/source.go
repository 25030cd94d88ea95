package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/rebeliceyang/cotable/internal/models"
)

var (
	// ErrUnsupportedSource is returned for URIs no loader understands
	ErrUnsupportedSource = errors.New("unsupported source")
	// ErrNotTabular is returned when the payload is not a list of records
	ErrNotTabular = errors.New("source is not a list of records")
)

// DemoURI selects the built-in sample dataset
const DemoURI = "demo"

// Dataset is the raw input of a table
type Dataset struct {
	// Fields lists top-level keys in first-seen order
	Fields []string
	Rows   []models.Row
	// Truncated is set when MaxRows cut the input short
	Truncated bool
}

// Options tunes a load
type Options struct {
	// MaxRows caps the number of rows kept; zero means unlimited
	MaxRows int
	Logger  *zap.Logger
}

// Load reads rows from uri. The loader is chosen by scheme for database
// URIs and by file extension otherwise; an empty uri loads the demo data.
func Load(ctx context.Context, uri string, opts Options) (*Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ds, err := load(ctx, strings.TrimSpace(uri))
	if err != nil {
		return nil, err
	}

	if opts.MaxRows > 0 && len(ds.Rows) > opts.MaxRows {
		logger.Warn("source truncated",
			zap.String("source", Redact(uri)),
			zap.Int("rows", len(ds.Rows)),
			zap.Int("max_rows", opts.MaxRows),
		)
		ds.Rows = ds.Rows[:opts.MaxRows]
		ds.Truncated = true
	}

	logger.Info("source loaded",
		zap.String("source", Redact(uri)),
		zap.Int("rows", len(ds.Rows)),
		zap.Int("fields", len(ds.Fields)),
	)
	return ds, nil
}

func load(ctx context.Context, uri string) (*Dataset, error) {
	if uri == "" || uri == DemoURI {
		return Demo(), nil
	}

	switch scheme(uri) {
	case "sqlite", "sqlite3":
		return loadSQLite(ctx, uri)
	case "postgres", "postgresql":
		return loadPostgres(ctx, uri)
	case "", "file":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, Redact(uri))
	}

	path := strings.TrimPrefix(uri, "file://")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".csv":
		return loadCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, path)
	}
}

func scheme(uri string) string {
	i := strings.Index(uri, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(uri[:i])
}

// Redact hides the password of a database URI
func Redact(uri string) string {
	if scheme(uri) == "" {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return u.Redacted()
}
