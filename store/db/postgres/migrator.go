package postgres

import (
	"context"

	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS professor (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	introduction TEXT NOT NULL DEFAULT '',
	research_areas JSONB NOT NULL DEFAULT '[]',
	achievements JSONB NOT NULL DEFAULT '[]',
	projects JSONB NOT NULL DEFAULT '[]',
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE INDEX IF NOT EXISTS idx_professor_name ON professor (name);
`

// Migrate creates the schema when it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply postgres schema")
	}
	return nil
}
