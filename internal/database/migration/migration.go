package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ticketapi/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_events",
		SQL: `CREATE TABLE IF NOT EXISTS events (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title           TEXT        NOT NULL,
  venue           TEXT        NOT NULL DEFAULT '',
  description     TEXT        NOT NULL DEFAULT '',
  starts_at       TIMESTAMPTZ NOT NULL,
  price           BIGINT      NOT NULL CHECK (price >= 0),
  total_seats     INTEGER     NOT NULL CHECK (total_seats >= 0),
  available_seats INTEGER     NOT NULL CHECK (available_seats >= 0),
  requires_link   BOOLEAN     NOT NULL DEFAULT false,
  status          TEXT        NOT NULL DEFAULT 'active',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK (available_seats <= total_seats)
);`,
	},
	{
		Name: "create_table_generated_links",
		SQL: `CREATE TABLE IF NOT EXISTS generated_links (
  token      TEXT        PRIMARY KEY,
  event_id   UUID        NOT NULL REFERENCES events (id),
  label      TEXT        NOT NULL DEFAULT '',
  max_uses   INTEGER     NOT NULL CHECK (max_uses > 0),
  used_count INTEGER     NOT NULL DEFAULT 0 CHECK (used_count >= 0),
  expires_at TIMESTAMPTZ,
  revoked    BOOLEAN     NOT NULL DEFAULT false,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_orders",
		SQL: `CREATE TABLE IF NOT EXISTS orders (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  code          TEXT        NOT NULL UNIQUE,
  event_id      UUID        NOT NULL REFERENCES events (id),
  customer_name TEXT        NOT NULL,
  email         TEXT        NOT NULL,
  phone         TEXT        NOT NULL DEFAULT '',
  quantity      INTEGER     NOT NULL CHECK (quantity > 0),
  unit_price    BIGINT      NOT NULL CHECK (unit_price >= 0),
  total_amount  BIGINT      NOT NULL CHECK (total_amount >= 0),
  status        TEXT        NOT NULL DEFAULT 'pending',
  slip_path     TEXT        NOT NULL DEFAULT '',
  reject_reason TEXT        NOT NULL DEFAULT '',
  link_token    TEXT        REFERENCES generated_links (token),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  paid_at       TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_orders_status_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_status_created_at ON orders (status, created_at);`,
	},
	{
		Name: "create_index_orders_event_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_event_id ON orders (event_id);`,
	},
	{
		Name: "create_table_refund_links",
		SQL: `CREATE TABLE IF NOT EXISTS refund_links (
  token          TEXT        PRIMARY KEY,
  order_id       UUID        NOT NULL UNIQUE REFERENCES orders (id),
  amount         BIGINT      NOT NULL CHECK (amount >= 0),
  status         TEXT        NOT NULL DEFAULT 'open',
  bank_name      TEXT        NOT NULL DEFAULT '',
  account_name   TEXT        NOT NULL DEFAULT '',
  account_number TEXT        NOT NULL DEFAULT '',
  expires_at     TIMESTAMPTZ NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  submitted_at   TIMESTAMPTZ,
  completed_at   TIMESTAMPTZ
);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  kind       TEXT        NOT NULL,
  order_code TEXT        NOT NULL,
  payload    JSONB       NOT NULL DEFAULT '{}'::jsonb,
  status     TEXT        NOT NULL DEFAULT 'pending',
  attempts   INTEGER     NOT NULL DEFAULT 0,
  last_error TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  sent_at    TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_notifications_pending",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_pending ON notifications (created_at) WHERE status = 'pending';`,
	},
	{
		Name: "add_notifications_next_attempt_at",
		SQL:  `ALTER TABLE notifications ADD COLUMN IF NOT EXISTS next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT now();`,
	},
	{
		Name: "create_index_notifications_due",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_due ON notifications (next_attempt_at) WHERE status = 'pending';`,
	},
}

const createLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// EnsureMigrated applies every step not yet recorded in schema_migrations.
// Steps already applied are skipped, so it is safe to call on every start.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	start := time.Now()

	logging.Log(map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	fail := func(step string, stepStart time.Time, err error) error {
		entry := map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": err.Error(),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		}
		if step != "" {
			entry["migration_step"] = step
			entry["step_duration_ms"] = time.Since(stepStart).Milliseconds()
		}
		logging.Log(entry)
		if step != "" {
			return fmt.Errorf("migration step %s failed: %w", step, err)
		}
		return err
	}

	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		return fail("", start, fmt.Errorf("failed to create migration ledger: %w", err))
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		return fail("", start, fmt.Errorf("failed to read migration ledger: %w", err))
	}

	ran := 0
	for _, step := range steps {
		if applied[step.Name] {
			continue
		}
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return fail(step.Name, stepStart, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
			return fail(step.Name, stepStart, err)
		}
		ran++

		logging.Log(map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	event := "db_migration_success"
	if ran == 0 {
		event = "db_migration_skip"
	}
	logging.Log(map[string]any{
		"component":   "database",
		"event":       event,
		"status":      "success",
		"steps_run":   ran,
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
