package store

// schemaSQL is valid for both sqlite and postgres.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS trips (
    trip_id              TEXT PRIMARY KEY,
    name                 TEXT NOT NULL DEFAULT '',
    tier                 TEXT NOT NULL,
    people               INTEGER NOT NULL,
    days_requested       INTEGER NOT NULL,
    total                DOUBLE PRECISION NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trip_days (
    trip_id              TEXT NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
    day                  INTEGER NOT NULL,
    kind                 TEXT NOT NULL,
    from_city            TEXT NOT NULL DEFAULT '',
    to_city              TEXT NOT NULL DEFAULT '',
    stay_city            TEXT NOT NULL DEFAULT '',
    season               TEXT NOT NULL DEFAULT '',
    mode                 TEXT NOT NULL DEFAULT '',
    distance_km          DOUBLE PRECISION NOT NULL DEFAULT 0,
    accommodation        DOUBLE PRECISION NOT NULL DEFAULT 0,
    food                 DOUBLE PRECISION NOT NULL DEFAULT 0,
    transport            DOUBLE PRECISION NOT NULL DEFAULT 0,
    local_transport      DOUBLE PRECISION NOT NULL DEFAULT 0,
    total                DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (trip_id, day)
);

CREATE INDEX IF NOT EXISTS idx_trips_created ON trips(created_at);
`
