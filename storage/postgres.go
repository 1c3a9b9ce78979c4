package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/lib/pq"

	"travel-scraper/models"
	"travel-scraper/utils"
)

const (
	pingAttempts = 10
	pingDelay    = 2 * time.Second
)

// PostgresStore persists every domain to PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens a connection to PostgreSQL, waits for it to accept
// connections, runs schema migrations and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < pingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		logger.Warn("[postgres] Ping failed (attempt %d/%d): %v", i+1, pingAttempts, err)
		if serr := utils.Sleep(ctx, pingDelay); serr != nil {
			break
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w: %w", ErrUnavailable, err)
	}

	ps := &PostgresStore{db: db, logger: logger}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

// schema is idempotent. The ALTER statements bring tables created by older
// releases up to date.
const schema = `
		CREATE TABLE IF NOT EXISTS classified_listings (
			id              TEXT         PRIMARY KEY,
			url             TEXT         NOT NULL,
			title           TEXT         NOT NULL,
			description     TEXT         NOT NULL DEFAULT '',
			category        TEXT         NOT NULL DEFAULT '',
			price           TEXT         NOT NULL,
			price_raw       BIGINT       NOT NULL DEFAULT 0,
			location        TEXT         NOT NULL DEFAULT '',
			location_slug   TEXT         NOT NULL DEFAULT '',
			city            TEXT         NOT NULL DEFAULT '',
			state           TEXT         NOT NULL DEFAULT '',
			geohash         TEXT         NOT NULL DEFAULT '',
			bedrooms        INTEGER,
			bathrooms       INTEGER,
			furnishing      TEXT,
			images          TEXT[]       NOT NULL DEFAULT '{}',
			main_image      TEXT,
			seller_name     TEXT         NOT NULL DEFAULT 'Unknown',
			seller_verified BOOLEAN      NOT NULL DEFAULT FALSE,
			published_at    TIMESTAMPTZ  NOT NULL,
			expires_at      TIMESTAMPTZ  NOT NULL,
			is_active       BOOLEAN      NOT NULL DEFAULT TRUE,
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS price_history (
			id          UUID         PRIMARY KEY,
			listing_id  TEXT         NOT NULL REFERENCES classified_listings(id) ON DELETE CASCADE,
			price       BIGINT       NOT NULL,
			currency    VARCHAR(8)   NOT NULL DEFAULT 'INR',
			recorded_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS train_routes (
			id             SERIAL       PRIMARY KEY,
			train_number   VARCHAR(8)   NOT NULL,
			train_name     TEXT         NOT NULL,
			train_type     VARCHAR(32)  NOT NULL,
			from_station   VARCHAR(8)   NOT NULL,
			from_city      TEXT         NOT NULL,
			to_station     VARCHAR(8)   NOT NULL,
			to_city        TEXT         NOT NULL,
			departure_time TEXT         NOT NULL DEFAULT '',
			arrival_time   TEXT         NOT NULL DEFAULT '',
			duration       TEXT         NOT NULL DEFAULT 'N/A',
			running_days   TEXT[]       NOT NULL DEFAULT '{}',
			price_general  INTEGER,
			price_sleeper  INTEGER,
			price_ac3      INTEGER,
			price_ac2      INTEGER,
			price_ac1      INTEGER,
			source         VARCHAR(32)  NOT NULL,
			source_url     TEXT         NOT NULL DEFAULT '',
			is_active      BOOLEAN      NOT NULL DEFAULT TRUE,
			created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			UNIQUE (train_number, from_station, to_station)
		);

		CREATE TABLE IF NOT EXISTS flight_routes (
			id             UUID         PRIMARY KEY,
			flight_number  VARCHAR(16)  NOT NULL,
			airline        TEXT         NOT NULL,
			airline_code   VARCHAR(4)   NOT NULL DEFAULT '',
			from_airport   VARCHAR(4)   NOT NULL,
			from_city      TEXT         NOT NULL,
			to_airport     VARCHAR(4)   NOT NULL,
			to_city        TEXT         NOT NULL,
			departure_time TEXT         NOT NULL DEFAULT '',
			arrival_time   TEXT         NOT NULL DEFAULT '',
			duration       TEXT         NOT NULL DEFAULT 'N/A',
			stops          SMALLINT     NOT NULL DEFAULT 0,
			price_economy  INTEGER      NOT NULL DEFAULT 0,
			price_business INTEGER,
			flight_date    DATE         NOT NULL,
			source         VARCHAR(32)  NOT NULL,
			source_url     TEXT         NOT NULL DEFAULT '',
			is_active      BOOLEAN      NOT NULL DEFAULT TRUE,
			created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS search_cache (
			domain        VARCHAR(16)  NOT NULL,
			from_city     TEXT         NOT NULL,
			to_city       TEXT         NOT NULL,
			search_date   VARCHAR(10)  NOT NULL DEFAULT '',
			results_count INTEGER      NOT NULL DEFAULT 0,
			last_searched TIMESTAMPTZ  NOT NULL,
			is_stale      BOOLEAN      NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			PRIMARY KEY (domain, from_city, to_city, search_date)
		);

		CREATE INDEX IF NOT EXISTS idx_listings_city      ON classified_listings(city);
		CREATE INDEX IF NOT EXISTS idx_listings_category  ON classified_listings(category);
		CREATE INDEX IF NOT EXISTS idx_listings_price_raw ON classified_listings(price_raw);
		CREATE INDEX IF NOT EXISTS idx_price_history_listing ON price_history(listing_id, recorded_at);
		CREATE INDEX IF NOT EXISTS idx_trains_route       ON train_routes(from_station, to_station);
		CREATE INDEX IF NOT EXISTS idx_flights_route_date ON flight_routes(from_airport, to_airport, flight_date);

		ALTER TABLE classified_listings ADD COLUMN IF NOT EXISTS location_slug TEXT NOT NULL DEFAULT '';
		ALTER TABLE train_routes
			ALTER COLUMN departure_time TYPE TEXT,
			ALTER COLUMN arrival_time   TYPE TEXT,
			ALTER COLUMN duration       TYPE TEXT;
		ALTER TABLE flight_routes
			ALTER COLUMN departure_time TYPE TEXT,
			ALTER COLUMN arrival_time   TYPE TEXT,
			ALTER COLUMN duration       TYPE TEXT;

		CREATE INDEX IF NOT EXISTS idx_listings_location ON classified_listings(location_slug);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_flights_natural_key
			ON flight_routes(flight_number, airline, from_airport, to_airport, flight_date);
`

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, schema)
	return err
}

// Close closes the connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

const listingColumns = `id, url, title, description, category, price, price_raw, location, location_slug,
	city, state, geohash, bedrooms, bathrooms, furnishing, images, main_image, seller_name, seller_verified,
	published_at, expires_at, is_active, created_at, updated_at`

func (ps *PostgresStore) FindListing(ctx context.Context, id string) (*models.ClassifiedListing, error) {
	row := ps.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM classified_listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find listing", err)
	}
	return l, nil
}

func (ps *PostgresStore) UpsertListing(ctx context.Context, l *models.ClassifiedListing) error {
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO classified_listings (`+listingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
		ON CONFLICT (id) DO UPDATE SET
			title         = EXCLUDED.title,
			description   = EXCLUDED.description,
			price         = EXCLUDED.price,
			price_raw     = EXCLUDED.price_raw,
			location_slug = EXCLUDED.location_slug,
			images        = EXCLUDED.images,
			main_image    = EXCLUDED.main_image,
			is_active     = TRUE,
			updated_at    = EXCLUDED.updated_at
	`,
		l.ID, l.URL, l.Title, l.Description, l.Category, l.Price, l.PriceRaw, l.Location, l.LocationSlug,
		l.City, l.State, l.Geohash, nullInt(l.Bedrooms), nullInt(l.Bathrooms), nullString(l.Furnishing), pq.Array(l.Images),
		nullString(l.MainImage), l.SellerName, l.SellerVerified,
		l.PublishedAt, l.ExpiresAt, l.IsActive, l.CreatedAt, l.UpdatedAt,
	)
	return wrapErr("upsert listing", err)
}

func (ps *PostgresStore) DeactivateListing(ctx context.Context, id string) (bool, error) {
	res, err := ps.db.ExecContext(ctx,
		`UPDATE classified_listings SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return false, wrapErr("deactivate listing", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapErr("deactivate listing", err)
	}
	return n > 0, nil
}

func (ps *PostgresStore) SearchListings(ctx context.Context, q ListingQuery) ([]*models.ClassifiedListing, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if q.ActiveOnly {
		where = append(where, "is_active")
	}
	if q.Location != "" {
		add("(location_slug = $%[1]d OR LOWER(city) = LOWER($%[1]d))", q.Location)
	}
	if q.City != "" {
		add("LOWER(city) = LOWER($%d)", q.City)
	}
	if q.Category != "" {
		add("LOWER(category) = LOWER($%d)", q.Category)
	}
	if q.MinPrice != nil {
		add("price_raw >= $%d", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		add("price_raw <= $%d", *q.MaxPrice)
	}

	query := `SELECT ` + listingColumns + ` FROM classified_listings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("search listings", err)
	}
	defer rows.Close()

	var listings []*models.ClassifiedListing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, wrapErr("scan listing", err)
		}
		listings = append(listings, l)
	}
	return listings, wrapErr("search listings", rows.Err())
}

func (ps *PostgresStore) CreatePriceHistory(ctx context.Context, e *models.PriceHistoryEntry) error {
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO price_history (id, listing_id, price, currency, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`, e.ID, e.ListingID, e.Price, e.Currency, e.RecordedAt)
	return wrapErr("create price history", err)
}

func (ps *PostgresStore) ListPriceHistory(ctx context.Context, listingID string) ([]*models.PriceHistoryEntry, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, listing_id, price, currency, recorded_at
		FROM price_history
		WHERE listing_id = $1
		ORDER BY recorded_at
	`, listingID)
	if err != nil {
		return nil, wrapErr("list price history", err)
	}
	defer rows.Close()

	var entries []*models.PriceHistoryEntry
	for rows.Next() {
		e := &models.PriceHistoryEntry{}
		if err := rows.Scan(&e.ID, &e.ListingID, &e.Price, &e.Currency, &e.RecordedAt); err != nil {
			return nil, wrapErr("scan price history", err)
		}
		entries = append(entries, e)
	}
	return entries, wrapErr("list price history", rows.Err())
}

const trainColumns = `train_number, train_name, train_type, from_station, from_city, to_station, to_city,
	departure_time, arrival_time, duration, running_days, price_general, price_sleeper, price_ac3,
	price_ac2, price_ac1, source, source_url, is_active, created_at, updated_at`

func (ps *PostgresStore) FindTrain(ctx context.Context, key models.TrainKey) (*models.TrainRoute, error) {
	row := ps.db.QueryRowContext(ctx, `SELECT `+trainColumns+` FROM train_routes
		WHERE train_number = $1 AND from_station = $2 AND to_station = $3`,
		key.Number, key.FromStation, key.ToStation)
	t, err := scanTrain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find train", err)
	}
	return t, nil
}

func (ps *PostgresStore) UpsertTrain(ctx context.Context, t *models.TrainRoute) error {
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO train_routes (`+trainColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (train_number, from_station, to_station) DO UPDATE SET
			train_name     = EXCLUDED.train_name,
			train_type     = EXCLUDED.train_type,
			departure_time = EXCLUDED.departure_time,
			arrival_time   = EXCLUDED.arrival_time,
			duration       = EXCLUDED.duration,
			running_days   = EXCLUDED.running_days,
			price_general  = EXCLUDED.price_general,
			price_sleeper  = EXCLUDED.price_sleeper,
			price_ac3      = EXCLUDED.price_ac3,
			price_ac2      = EXCLUDED.price_ac2,
			price_ac1      = EXCLUDED.price_ac1,
			source         = EXCLUDED.source,
			source_url     = EXCLUDED.source_url,
			is_active      = TRUE,
			updated_at     = EXCLUDED.updated_at
	`,
		t.TrainNumber, t.TrainName, string(t.TrainType), t.FromStation, t.FromCity, t.ToStation, t.ToCity,
		t.DepartureTime, t.ArrivalTime, t.Duration, pq.Array(t.RunningDays),
		nullInt(t.PriceGeneral), nullInt(t.PriceSleeper), nullInt(t.PriceAC3), nullInt(t.PriceAC2), nullInt(t.PriceAC1),
		t.Source, t.SourceURL, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	return wrapErr("upsert train", err)
}

func (ps *PostgresStore) ListTrains(ctx context.Context, fromStation, toStation string) ([]*models.TrainRoute, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT `+trainColumns+` FROM train_routes
		WHERE from_station = $1 AND to_station = $2 AND is_active
		ORDER BY departure_time`, fromStation, toStation)
	if err != nil {
		return nil, wrapErr("list trains", err)
	}
	defer rows.Close()

	var trains []*models.TrainRoute
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, wrapErr("scan train", err)
		}
		trains = append(trains, t)
	}
	return trains, wrapErr("list trains", rows.Err())
}

const flightColumns = `id, flight_number, airline, airline_code, from_airport, from_city, to_airport, to_city,
	departure_time, arrival_time, duration, stops, price_economy, price_business, flight_date,
	source, source_url, is_active, created_at`

// ReplaceFlights runs the delete and the inserts in one transaction. Each
// insert sits behind a savepoint so a rejected row leaves the rest intact.
func (ps *PostgresStore) ReplaceFlights(ctx context.Context, fromAirport, toAirport string, date time.Time, flights []*models.FlightRoute) (FlightReplacement, error) {
	res := FlightReplacement{Errors: make([]error, len(flights))}
	day := date.Format(models.DateLayout)

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return res, wrapErr("replace flights", err)
	}
	defer tx.Rollback()

	deleted, err := tx.ExecContext(ctx, `
		DELETE FROM flight_routes
		WHERE from_airport = $1 AND to_airport = $2 AND flight_date = $3::date
	`, fromAirport, toAirport, day)
	if err != nil {
		return res, wrapErr("delete flights", err)
	}
	if res.Deleted, err = deleted.RowsAffected(); err != nil {
		return res, wrapErr("delete flights", err)
	}

	for i, f := range flights {
		if _, err := tx.ExecContext(ctx, `SAVEPOINT flight_insert`); err != nil {
			return res, wrapErr("replace flights", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO flight_routes (`+flightColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15::date,$16,$17,$18,$19)
		`,
			f.ID, f.FlightNumber, f.Airline, f.AirlineCode, f.FromAirport, f.FromCity, f.ToAirport, f.ToCity,
			f.DepartureTime, f.ArrivalTime, f.Duration, f.Stops, f.PriceEconomy, nullInt(f.PriceBusiness),
			f.FlightDate.Format(models.DateLayout), f.Source, f.SourceURL, f.IsActive, f.CreatedAt,
		)
		if err != nil {
			if isUnavailable(err) {
				return res, wrapErr("insert flight", err)
			}
			res.Errors[i] = wrapErr("insert flight "+f.FlightNumber, err)
			if _, err := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT flight_insert`); err != nil {
				return res, wrapErr("replace flights", err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT flight_insert`); err != nil {
			return res, wrapErr("replace flights", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return res, wrapErr("replace flights", err)
	}
	return res, nil
}

func (ps *PostgresStore) ListFlights(ctx context.Context, fromAirport, toAirport string, date time.Time) ([]*models.FlightRoute, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT `+flightColumns+` FROM flight_routes
		WHERE from_airport = $1 AND to_airport = $2 AND flight_date = $3::date AND is_active
		ORDER BY price_economy`, fromAirport, toAirport, date.Format(models.DateLayout))
	if err != nil {
		return nil, wrapErr("list flights", err)
	}
	defer rows.Close()

	var flights []*models.FlightRoute
	for rows.Next() {
		f := &models.FlightRoute{}
		var business sql.NullInt64
		if err := rows.Scan(
			&f.ID, &f.FlightNumber, &f.Airline, &f.AirlineCode, &f.FromAirport, &f.FromCity,
			&f.ToAirport, &f.ToCity, &f.DepartureTime, &f.ArrivalTime, &f.Duration, &f.Stops,
			&f.PriceEconomy, &business, &f.FlightDate, &f.Source, &f.SourceURL, &f.IsActive, &f.CreatedAt,
		); err != nil {
			return nil, wrapErr("scan flight", err)
		}
		f.PriceBusiness = intPtr(business)
		flights = append(flights, f)
	}
	return flights, wrapErr("list flights", rows.Err())
}

func (ps *PostgresStore) FindCacheEntry(ctx context.Context, key models.CacheKey) (*models.SearchCacheEntry, error) {
	e := &models.SearchCacheEntry{Key: key}
	err := ps.db.QueryRowContext(ctx, `
		SELECT results_count, last_searched, is_stale, created_at, updated_at
		FROM search_cache
		WHERE domain = $1 AND from_city = $2 AND to_city = $3 AND search_date = $4
	`, string(key.Domain), key.FromCity, key.ToCity, key.SearchDate).
		Scan(&e.ResultsCount, &e.LastSearched, &e.IsStale, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find cache entry", err)
	}
	return e, nil
}

func (ps *PostgresStore) UpsertCacheEntry(ctx context.Context, e *models.SearchCacheEntry) error {
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO search_cache (domain, from_city, to_city, search_date, results_count,
			last_searched, is_stale, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (domain, from_city, to_city, search_date) DO UPDATE SET
			results_count = EXCLUDED.results_count,
			last_searched = EXCLUDED.last_searched,
			is_stale      = EXCLUDED.is_stale,
			updated_at    = EXCLUDED.updated_at
	`, string(e.Key.Domain), e.Key.FromCity, e.Key.ToCity, e.Key.SearchDate, e.ResultsCount,
		e.LastSearched, e.IsStale, e.CreatedAt, e.UpdatedAt)
	return wrapErr("upsert cache entry", err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*models.ClassifiedListing, error) {
	l := &models.ClassifiedListing{}
	var (
		bedrooms, bathrooms   sql.NullInt64
		furnishing, mainImage sql.NullString
	)
	err := row.Scan(
		&l.ID, &l.URL, &l.Title, &l.Description, &l.Category, &l.Price, &l.PriceRaw, &l.Location,
		&l.LocationSlug, &l.City, &l.State, &l.Geohash, &bedrooms, &bathrooms, &furnishing, pq.Array(&l.Images),
		&mainImage, &l.SellerName, &l.SellerVerified, &l.PublishedAt, &l.ExpiresAt, &l.IsActive,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Bedrooms = intPtr(bedrooms)
	l.Bathrooms = intPtr(bathrooms)
	l.Furnishing = stringPtr(furnishing)
	l.MainImage = stringPtr(mainImage)
	return l, nil
}

func scanTrain(row rowScanner) (*models.TrainRoute, error) {
	t := &models.TrainRoute{}
	var (
		trainType                       string
		general, sleeper, ac3, ac2, ac1 sql.NullInt64
	)
	err := row.Scan(
		&t.TrainNumber, &t.TrainName, &trainType, &t.FromStation, &t.FromCity, &t.ToStation, &t.ToCity,
		&t.DepartureTime, &t.ArrivalTime, &t.Duration, pq.Array(&t.RunningDays),
		&general, &sleeper, &ac3, &ac2, &ac1, &t.Source, &t.SourceURL, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.TrainType = models.TrainType(trainType)
	t.PriceGeneral = intPtr(general)
	t.PriceSleeper = intPtr(sleeper)
	t.PriceAC3 = intPtr(ac3)
	t.PriceAC2 = intPtr(ac2)
	t.PriceAC1 = intPtr(ac1)
	return t, nil
}

// wrapErr prefixes err with the operation and marks connection failures
// with ErrUnavailable.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) {
		return fmt.Errorf("postgres: %s: %w: %w", op, ErrUnavailable, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("postgres: %s: %w: %w", op, ErrDuplicateKey, err)
	}
	return fmt.Errorf("postgres: %s: %w", op, err)
}

func isUnavailable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// class 08 is connection exception; 57P03 is cannot_connect_now
		return pqErr.Code.Class() == "08" || pqErr.Code == "57P03"
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone)
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
