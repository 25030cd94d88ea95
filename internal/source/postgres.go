package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rebeliceyang/cotable/internal/models"
)

func loadPostgres(ctx context.Context, uri string) (*Dataset, error) {
	target, err := parseDBTarget(uri)
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(target.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	// One-shot load; a single connection is enough
	poolConfig.MaxConns = 1
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	rows, err := pool.Query(ctx, target.query)
	if err != nil {
		return nil, fmt.Errorf("failed to query database: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	fields := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		fields[i] = fd.Name
	}

	var out []models.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
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

// normalizeValue maps driver values onto the plain types the table
// compares and renders
func normalizeValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil
	case []byte:
		// json and jsonb columns arrive as raw documents
		var decoded any
		if json.Unmarshal(v, &decoded) == nil {
			switch decoded.(type) {
			case map[string]any, []any:
				return decoded
			}
		}
		return string(v)
	case [16]byte:
		return uuid.UUID(v).String()
	case pgtype.Numeric:
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return v
	}
}
