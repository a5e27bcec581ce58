package postgres

// schema is applied by Migrate. Every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id    TEXT PRIMARY KEY,
	password   TEXT NOT NULL,
	character  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS stats (
	user_id  TEXT PRIMARY KEY REFERENCES users (user_id),
	wins     INTEGER NOT NULL DEFAULT 0,
	losses   INTEGER NOT NULL DEFAULT 0,
	draws    INTEGER NOT NULL DEFAULT 0,
	win_rate DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS game_history (
	seq          BIGSERIAL PRIMARY KEY,
	game_id      TEXT NOT NULL UNIQUE,
	played_at    TIMESTAMPTZ NOT NULL,
	participants TEXT[] NOT NULL,
	game_mode    TEXT NOT NULL,
	difficulty   TEXT NOT NULL,
	winners      TEXT[] NOT NULL,
	is_draw      BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS game_history_participants_idx ON game_history USING GIN (participants);

CREATE TABLE IF NOT EXISTS game_details (
	seq       BIGSERIAL PRIMARY KEY,
	game_id   TEXT NOT NULL,
	round     INTEGER NOT NULL,
	player_id TEXT NOT NULL,
	guess     TEXT NOT NULL,
	strike    INTEGER NOT NULL,
	ball      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS game_details_game_idx ON game_details (game_id);
`
