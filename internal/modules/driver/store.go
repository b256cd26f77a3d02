// README: Driver directory backed by Postgres profiles and Redis presence (GEO + online set).
package driver

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"boomerang/internal/types"
)

const (
	onlineSetKey = "drivers:online"
	geoKey       = "drivers:geo"
)

var ErrNotFound = errors.New("driver not found")

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

// SetOnline flips the driver's presence flag. Going offline also drops the
// GEO entry so stale positions never rank.
func (s *Store) SetOnline(ctx context.Context, id int64, online bool) error {
	member := strconv.FormatInt(id, 10)
	if online {
		return s.redis.SAdd(ctx, onlineSetKey, member).Err()
	}
	pipe := s.redis.Pipeline()
	pipe.SRem(ctx, onlineSetKey, member)
	pipe.ZRem(ctx, geoKey, member)
	_, err := pipe.Exec(ctx)
	return err
}

// UpdateLocation records the driver's latest position in the GEO set.
func (s *Store) UpdateLocation(ctx context.Context, id int64, pos types.Point) error {
	return s.redis.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      strconv.FormatInt(id, 10),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

// Available returns snapshots for every online driver with an active,
// approved profile. Drivers without a reported location are included with a
// nil Location.
func (s *Store) Available(ctx context.Context) ([]Snapshot, error) {
	members, err := s.redis.SMembers(ctx, onlineSetKey).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, phone, vehicle, approval, active, rating, push_token
		FROM drivers
		WHERE id = ANY($1) AND active`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		snap.Online = true
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return s.fillLocations(ctx, snaps)
}

// Get returns one driver snapshot, merging the Postgres profile with Redis
// presence.
func (s *Store) Get(ctx context.Context, id int64) (*Snapshot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, phone, vehicle, approval, active, rating, push_token
		FROM drivers
		WHERE id = $1`, id,
	)
	snap, err := scanSnapshot(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	member := strconv.FormatInt(id, 10)
	online, err := s.redis.SIsMember(ctx, onlineSetKey, member).Result()
	if err != nil {
		return nil, err
	}
	snap.Online = online

	filled, err := s.fillLocations(ctx, []Snapshot{snap})
	if err != nil {
		return nil, err
	}
	return &filled[0], nil
}

func (s *Store) fillLocations(ctx context.Context, snaps []Snapshot) ([]Snapshot, error) {
	if len(snaps) == 0 {
		return snaps, nil
	}
	members := make([]string, len(snaps))
	for i, snap := range snaps {
		members[i] = strconv.FormatInt(snap.ID, 10)
	}
	positions, err := s.redis.GeoPos(ctx, geoKey, members...).Result()
	if err != nil {
		return nil, err
	}
	for i, pos := range positions {
		if pos == nil {
			continue
		}
		snaps[i].Location = &types.Point{Lat: pos.Latitude, Lng: pos.Longitude}
	}
	return snaps, nil
}

func scanSnapshot(scan func(dest ...any) error) (Snapshot, error) {
	var snap Snapshot
	var rating sql.NullFloat64
	var pushToken sql.NullString
	err := scan(&snap.ID, &snap.Name, &snap.Phone, &snap.Vehicle, &snap.Approval, &snap.Active, &rating, &pushToken)
	if err != nil {
		return Snapshot{}, err
	}
	if rating.Valid {
		snap.Rating = rating.Float64
	}
	if pushToken.Valid {
		snap.PushToken = pushToken.String
	}
	return snap, nil
}
