package sqlite

import (
	"context"

	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS professor (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	introduction TEXT NOT NULL DEFAULT '',
	research_areas TEXT NOT NULL DEFAULT '[]',
	achievements TEXT NOT NULL DEFAULT '[]',
	projects TEXT NOT NULL DEFAULT '[]',
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_professor_name ON professor (name);
`

// Migrate creates the schema when it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply sqlite schema")
	}
	return nil
}
