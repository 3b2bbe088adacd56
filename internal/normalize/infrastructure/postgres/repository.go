package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	normalize "sunspec-gateway/internal/normalize/domain"
)

const defaultSnapshotsTable = "normalized_snapshots"

// SnapshotRepository persists normalized snapshots for history queries.
type SnapshotRepository struct {
	db    *sql.DB
	table string
}

// NewSnapshotRepository constructs a repository.
func NewSnapshotRepository(db *sql.DB, opts ...SnapshotOption) *SnapshotRepository {
	repo := &SnapshotRepository{db: db, table: defaultSnapshotsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// SnapshotOption configures the repository.
type SnapshotOption func(*SnapshotRepository)

// WithSnapshotsTable overrides the table name.
func WithSnapshotsTable(table string) SnapshotOption {
	return func(repo *SnapshotRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Insert stores one normalization result.
func (r *SnapshotRepository) Insert(ctx context.Context, res *normalize.Result, vocabulary string, at time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("snapshot repo: nil db")
	}
	if res == nil {
		return errors.New("snapshot repo: nil result")
	}
	if res.DeviceID == "" {
		return errors.New("snapshot repo: empty device id")
	}

	points, err := json.Marshal(res.Points)
	if err != nil {
		return err
	}
	unknown, err := json.Marshal(res.Unknown)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	device_id,
	vocabulary,
	taken_at,
	points,
	unknown_points,
	point_count,
	unknown_count,
	failed_count
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8
)`, r.table)

	_, err = r.db.ExecContext(
		ctx,
		query,
		res.DeviceID,
		vocabulary,
		at.UTC(),
		points,
		unknown,
		len(res.Points),
		len(res.Unknown),
		len(res.Failed),
	)
	return err
}

// LatestByDevice loads the most recent stored result for a device.
func (r *SnapshotRepository) LatestByDevice(ctx context.Context, deviceID string) (*normalize.Result, time.Time, error) {
	if r == nil || r.db == nil {
		return nil, time.Time{}, errors.New("snapshot repo: nil db")
	}
	if deviceID == "" {
		return nil, time.Time{}, errors.New("snapshot repo: empty device id")
	}

	query := fmt.Sprintf(`
SELECT device_id, taken_at, points, unknown_points
FROM %s
WHERE device_id = $1
ORDER BY taken_at DESC
LIMIT 1`, r.table)

	var res normalize.Result
	var at time.Time
	var points, unknown []byte
	err := r.db.QueryRowContext(ctx, query, deviceID).Scan(&res.DeviceID, &at, &points, &unknown)
	if err != nil {
		return nil, time.Time{}, err
	}
	if err := json.Unmarshal(points, &res.Points); err != nil {
		return nil, time.Time{}, err
	}
	if len(unknown) > 0 {
		if err := json.Unmarshal(unknown, &res.Unknown); err != nil {
			return nil, time.Time{}, err
		}
	}
	return &res, at.UTC(), nil
}
