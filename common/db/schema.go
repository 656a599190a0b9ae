package db

// schema is applied idempotently at start-up. Collections reference each
// other by value only (display group by name, exhibits/auctions by id list);
// there are no foreign keys between them.
const schema = `
CREATE TABLE IF NOT EXISTS app_user (
	user_id      TEXT PRIMARY KEY,
	email        TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL DEFAULT '',
	photo_url    TEXT NOT NULL DEFAULT '',
	role         TEXT NOT NULL DEFAULT 'visitor',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS display_group (
	group_id    TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	sort_order  INTEGER NOT NULL DEFAULT 0,
	active      BOOLEAN NOT NULL DEFAULT TRUE,
	color       TEXT NOT NULL DEFAULT '',
	created_by  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_display_group_name ON display_group (LOWER(name));

CREATE TABLE IF NOT EXISTS artifact (
	artifact_id      TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	category         TEXT NOT NULL,
	manufacturer     TEXT NOT NULL DEFAULT '',
	model            TEXT NOT NULL DEFAULT '',
	serial_number    TEXT NOT NULL DEFAULT '',
	year             TEXT NOT NULL DEFAULT '',
	operating_system TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	condition        TEXT NOT NULL DEFAULT '',
	display_group    TEXT NOT NULL,
	location         TEXT NOT NULL DEFAULT '',
	estimated_value  NUMERIC(12, 2),
	starting_bid     NUMERIC(12, 2),
	acquisition_date TEXT NOT NULL DEFAULT '',
	donor            TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	task_status      TEXT NOT NULL DEFAULT '',
	task_priority    TEXT NOT NULL DEFAULT '',
	images           TEXT[] NOT NULL DEFAULT '{}',
	created_by       TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_artifact_display_group ON artifact (display_group);

CREATE TABLE IF NOT EXISTS exhibit (
	exhibit_id   TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	start_date   TIMESTAMPTZ,
	end_date     TIMESTAMPTZ,
	location     TEXT NOT NULL DEFAULT '',
	curator      TEXT NOT NULL DEFAULT '',
	published    BOOLEAN NOT NULL DEFAULT FALSE,
	featured     BOOLEAN NOT NULL DEFAULT FALSE,
	artifact_ids TEXT[] NOT NULL DEFAULT '{}',
	header_image TEXT NOT NULL DEFAULT '',
	created_by   TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS auction (
	auction_id        TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	start_date        TIMESTAMPTZ NOT NULL,
	end_date          TIMESTAMPTZ NOT NULL,
	min_bid_increment NUMERIC(12, 2) NOT NULL DEFAULT 0,
	buy_now           BOOLEAN NOT NULL DEFAULT FALSE,
	published         BOOLEAN NOT NULL DEFAULT FALSE,
	featured          BOOLEAN NOT NULL DEFAULT FALSE,
	artifact_ids      TEXT[] NOT NULL DEFAULT '{}',
	header_image      TEXT NOT NULL DEFAULT '',
	created_by        TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bid (
	bid_id      TEXT PRIMARY KEY,
	auction_id  TEXT NOT NULL,
	artifact_id TEXT NOT NULL,
	bidder_id   TEXT NOT NULL,
	bidder_name TEXT NOT NULL DEFAULT '',
	amount      NUMERIC(12, 2) NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bid_key_amount ON bid (auction_id, artifact_id, amount DESC, created_at ASC);

CREATE TABLE IF NOT EXISTS image_blob (
	blob_id    TEXT PRIMARY KEY,
	media_type TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	content    BYTEA NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

