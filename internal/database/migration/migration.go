package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// SentinelTable is created by the last step; its presence means the schema is complete.
const SentinelTable = "public.order_items"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_auth_users",
		SQL: `CREATE TABLE IF NOT EXISTS auth_users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS profiles (
  id         UUID        PRIMARY KEY REFERENCES auth_users (id) ON DELETE CASCADE,
  email      TEXT        NOT NULL,
  full_name  TEXT,
  phone      TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_user_roles",
		SQL: `CREATE TABLE IF NOT EXISTS user_roles (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        NOT NULL REFERENCES auth_users (id) ON DELETE CASCADE,
  role       TEXT        NOT NULL CHECK (role IN ('admin', 'user')),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (user_id, role)
);`,
	},
	{
		Name: "create_table_revoked_tokens",
		SQL: `CREATE TABLE IF NOT EXISTS revoked_tokens (
  jti        TEXT        PRIMARY KEY,
  user_id    UUID        NOT NULL REFERENCES auth_users (id) ON DELETE CASCADE,
  expires_at TIMESTAMPTZ NOT NULL,
  revoked_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_categories",
		SQL: `CREATE TABLE IF NOT EXISTS categories (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL,
  slug          TEXT        NOT NULL UNIQUE,
  description   TEXT,
  image_url     TEXT,
  display_order INTEGER     NOT NULL DEFAULT 0,
  is_active     BOOLEAN     NOT NULL DEFAULT true,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_products",
		SQL: `CREATE TABLE IF NOT EXISTS products (
  id               UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  category_id      UUID          REFERENCES categories (id) ON DELETE SET NULL,
  name             TEXT          NOT NULL,
  slug             TEXT          NOT NULL UNIQUE,
  description      TEXT,
  price            NUMERIC(12,2) NOT NULL CHECK (price >= 0),
  discount_percent INTEGER       NOT NULL DEFAULT 0 CHECK (discount_percent BETWEEN 0 AND 100),
  images           TEXT[]        NOT NULL DEFAULT '{}',
  stock_quantity   INTEGER       NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
  sku              TEXT,
  is_active        BOOLEAN       NOT NULL DEFAULT true,
  is_featured      BOOLEAN       NOT NULL DEFAULT false,
  created_at       TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_products_category_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_products_category_id ON products (category_id);`,
	},
	{
		Name: "create_index_products_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at);`,
	},
	{
		Name: "create_table_banners",
		SQL: `CREATE TABLE IF NOT EXISTS banners (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title         TEXT        NOT NULL,
  image_url     TEXT        NOT NULL,
  link_url      TEXT,
  display_order INTEGER     NOT NULL DEFAULT 0,
  is_active     BOOLEAN     NOT NULL DEFAULT true,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_cart_items",
		SQL: `CREATE TABLE IF NOT EXISTS cart_items (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        NOT NULL REFERENCES auth_users (id) ON DELETE CASCADE,
  product_id UUID        NOT NULL REFERENCES products (id) ON DELETE CASCADE,
  quantity   INTEGER     NOT NULL DEFAULT 1 CHECK (quantity > 0),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (user_id, product_id)
);`,
	},
	{
		Name: "create_table_wishlist",
		SQL: `CREATE TABLE IF NOT EXISTS wishlist (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        NOT NULL REFERENCES auth_users (id) ON DELETE CASCADE,
  product_id UUID        NOT NULL REFERENCES products (id) ON DELETE CASCADE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (user_id, product_id)
);`,
	},
	{
		Name: "create_table_addresses",
		SQL: `CREATE TABLE IF NOT EXISTS addresses (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id       UUID        NOT NULL REFERENCES auth_users (id) ON DELETE CASCADE,
  full_name     TEXT        NOT NULL,
  phone         TEXT        NOT NULL,
  address_line1 TEXT        NOT NULL,
  address_line2 TEXT,
  city          TEXT        NOT NULL,
  state         TEXT        NOT NULL,
  pincode       TEXT        NOT NULL,
  is_default    BOOLEAN     NOT NULL DEFAULT false,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_coupons",
		SQL: `CREATE TABLE IF NOT EXISTS coupons (
  id                  UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  code                TEXT          NOT NULL UNIQUE CHECK (code = upper(code)),
  discount_type       TEXT          NOT NULL CHECK (discount_type IN ('percent', 'fixed')),
  discount_value      NUMERIC(12,2) NOT NULL CHECK (discount_value >= 0),
  min_order_amount    NUMERIC(12,2),
  max_discount_amount NUMERIC(12,2),
  usage_limit         INTEGER,
  used_count          INTEGER       NOT NULL DEFAULT 0,
  is_active           BOOLEAN       NOT NULL DEFAULT true,
  valid_from          TIMESTAMPTZ   NOT NULL DEFAULT now(),
  valid_until         TIMESTAMPTZ,
  created_at          TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at          TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_sequence_order_number",
		SQL:  `CREATE SEQUENCE IF NOT EXISTS order_number_seq;`,
	},
	{
		Name: "create_function_generate_order_number",
		SQL: `CREATE OR REPLACE FUNCTION generate_order_number() RETURNS TEXT AS $$
  SELECT 'CB' || to_char(now(), 'YYYYMMDD') || lpad(nextval('order_number_seq')::text, 6, '0');
$$ LANGUAGE sql VOLATILE;`,
	},
	{
		Name: "create_table_orders",
		SQL: `CREATE TABLE IF NOT EXISTS orders (
  id               UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id          UUID          NOT NULL REFERENCES auth_users (id) ON DELETE CASCADE,
  order_number     TEXT          NOT NULL UNIQUE DEFAULT generate_order_number(),
  status           TEXT          NOT NULL DEFAULT 'pending',
  payment_status   TEXT          NOT NULL DEFAULT 'pending',
  payment_method   TEXT          NOT NULL DEFAULT 'cod',
  subtotal         NUMERIC(12,2) NOT NULL,
  discount_amount  NUMERIC(12,2),
  total_amount     NUMERIC(12,2) NOT NULL,
  coupon_id        UUID          REFERENCES coupons (id) ON DELETE SET NULL,
  shipping_address JSONB         NOT NULL,
  idempotency_key  TEXT,
  created_at       TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_orders_idempotency",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_user_idempotency
  ON orders (user_id, idempotency_key) WHERE idempotency_key IS NOT NULL;`,
	},
	{
		Name: "create_index_orders_user_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_user_created_at ON orders (user_id, created_at);`,
	},
	{
		Name: "create_table_order_items",
		SQL: `CREATE TABLE IF NOT EXISTS order_items (
  id            UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  order_id      UUID          NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
  product_id    UUID          REFERENCES products (id) ON DELETE SET NULL,
  product_name  TEXT          NOT NULL,
  product_price NUMERIC(12,2) NOT NULL,
  quantity      INTEGER       NOT NULL CHECK (quantity > 0),
  subtotal      NUMERIC(12,2) NOT NULL,
  created_at    TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated checks for the sentinel table and runs every step when it is missing.
// Steps are idempotent, so a run interrupted halfway is completed on the next start.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With("component", "database", "db_host", dbHost)

	log.InfoContext(ctx, "db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	if err := db.QueryRowContext(ctx, query, SentinelTable).Scan(&exists); err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.InfoContext(ctx, "db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.InfoContext(ctx, "db_migration_start", "status", "in_progress", "steps", len(steps))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.DebugContext(ctx, "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
