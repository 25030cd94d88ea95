package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rebeliceyang/cotable/internal/models"
)

// dbTarget is a database URI split into its connection part and the
// statement that produces the rows
type dbTarget struct {
	conn  string
	query string
}

// parseDBTarget strips the query and table parameters off uri. Exactly
// one of them must be present.
func parseDBTarget(uri string) (dbTarget, error) {
	base, rawQuery, _ := strings.Cut(uri, "?")
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return dbTarget{}, fmt.Errorf("failed to parse source parameters: %w", err)
	}

	query := strings.TrimSpace(params.Get("query"))
	table := strings.TrimSpace(params.Get("table"))
	params.Del("query")
	params.Del("table")

	switch {
	case query != "" && table != "":
		return dbTarget{}, fmt.Errorf("source %s: query and table are mutually exclusive", Redact(base))
	case table != "":
		query = "SELECT * FROM " + quoteIdent(table)
	case query == "":
		return dbTarget{}, fmt.Errorf("source %s: a query or table parameter is required", Redact(base))
	}

	conn := base
	if rest := params.Encode(); rest != "" {
		conn += "?" + rest
	}
	return dbTarget{conn: conn, query: query}, nil
}

func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

func loadSQLite(ctx context.Context, uri string) (*Dataset, error) {
	target, err := parseDBTarget(uri)
	if err != nil {
		return nil, err
	}

	_, path, _ := strings.Cut(target.conn, "://")
	path, _, _ = strings.Cut(path, "?")
	if path == "" {
		return nil, fmt.Errorf("source %s: missing database path", uri)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, target.query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sqlite database: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSQLRows(rows)
}

func scanSQLRows(rows *sql.Rows) (*Dataset, error) {
	fields, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	values := make([]any, len(fields))
	ptrs := make([]any, len(fields))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var out []models.Row
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(models.Row, len(fields))
		for i, name := range fields {
			row[name] = normalizeValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return &Dataset{Fields: fields, Rows: out}, nil
}
