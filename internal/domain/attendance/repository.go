package attendance

import (
	"context"
	"time"
)

// DailyRecordRepository is the clock ledger. Writes are serialized per
// (user, date) key; reads may observe a snapshot that is one write behind.
type DailyRecordRepository interface {
	// Insert creates the record for rec's (UserID, Date) key.
	// Returns ErrAlreadyClockedIn if the key already holds a record.
	Insert(ctx context.Context, rec DailyRecord) (DailyRecord, error)

	// Update loads the record for the key under a per-key write lock, applies fn,
	// and persists the result. Returns ErrNoRecordToday if no record exists.
	// If fn returns an error nothing is written and that error is returned.
	Update(ctx context.Context, userID string, date time.Time, fn func(rec *DailyRecord) error) (DailyRecord, error)

	// GetByUserAndDate returns nil when the key holds no record.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*DailyRecord, error)

	// ListByUser returns records with from <= date <= to ordered by date ascending.
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]DailyRecord, error)

	// LatestByUsers returns each user's record with the greatest date.
	// Users without records are absent from the map.
	LatestByUsers(ctx context.Context, userIDs []string) (map[string]DailyRecord, error)

	// CountByDateAndStatus counts records for date in the given status.
	CountByDateAndStatus(ctx context.Context, date time.Time, status Status) (int64, error)
}
