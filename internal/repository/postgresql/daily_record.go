package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const dailyRecordColumns = `id, user_id, date, clock_in, clock_out, status, total_work_hours, skew_flagged, created_at, updated_at`

type dailyRecordRepositoryImpl struct {
	db *database.DB
}

func NewDailyRecordRepository(db *database.DB) attendance.DailyRecordRepository {
	return &dailyRecordRepositoryImpl{db: db}
}

func scanDailyRecord(row pgx.Row) (attendance.DailyRecord, error) {
	var rec attendance.DailyRecord
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Date,
		&rec.ClockIn,
		&rec.ClockOut,
		&rec.Status,
		&rec.TotalWorkHours,
		&rec.SkewFlagged,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return attendance.DailyRecord{}, err
	}
	rec.Date = time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, time.UTC)
	rec.ClockIn = rec.ClockIn.UTC()
	if rec.ClockOut != nil {
		out := rec.ClockOut.UTC()
		rec.ClockOut = &out
	}
	return rec, nil
}

// Insert implements attendance.DailyRecordRepository.
func (r *dailyRecordRepositoryImpl) Insert(ctx context.Context, rec attendance.DailyRecord) (attendance.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_records (id, user_id, date, clock_in, clock_out, status, total_work_hours, skew_flagged)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, date) DO NOTHING
		RETURNING ` + dailyRecordColumns

	created, err := scanDailyRecord(q.QueryRow(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Date,
		rec.ClockIn,
		rec.ClockOut,
		rec.Status,
		rec.TotalWorkHours,
		rec.SkewFlagged,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailyRecord{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.DailyRecord{}, database.Unavailable("insert daily record", err)
	}
	return created, nil
}

// Update implements attendance.DailyRecordRepository.
func (r *dailyRecordRepositoryImpl) Update(ctx context.Context, userID string, date time.Time, fn func(rec *attendance.DailyRecord) error) (attendance.DailyRecord, error) {
	var updated attendance.DailyRecord

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)

		rec, err := scanDailyRecord(q.QueryRow(txCtx,
			`SELECT `+dailyRecordColumns+` FROM daily_records WHERE user_id = $1 AND date = $2 FOR UPDATE`,
			userID, date))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return attendance.ErrNoRecordToday
			}
			return database.Unavailable("lock daily record", err)
		}

		if err := fn(&rec); err != nil {
			return err
		}

		updated, err = scanDailyRecord(q.QueryRow(txCtx, `
			UPDATE daily_records
			SET clock_out = $2, status = $3, total_work_hours = $4, skew_flagged = $5, updated_at = NOW()
			WHERE id = $1
			RETURNING `+dailyRecordColumns,
			rec.ID,
			rec.ClockOut,
			rec.Status,
			rec.TotalWorkHours,
			rec.SkewFlagged,
		))
		if err != nil {
			return database.Unavailable("update daily record", err)
		}
		return nil
	})
	if err != nil {
		return attendance.DailyRecord{}, err
	}
	return updated, nil
}

// GetByUserAndDate implements attendance.DailyRecordRepository.
func (r *dailyRecordRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanDailyRecord(q.QueryRow(ctx,
		`SELECT `+dailyRecordColumns+` FROM daily_records WHERE user_id = $1 AND date = $2`,
		userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Unavailable("get daily record", err)
	}
	return &rec, nil
}

// ListByUser implements attendance.DailyRecordRepository.
func (r *dailyRecordRepositoryImpl) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+dailyRecordColumns+`
		FROM daily_records
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC`,
		userID, from, to)
	if err != nil {
		return nil, database.Unavailable("list daily records", err)
	}
	defer rows.Close()

	return collectDailyRecords(rows)
}

// LatestByUsers implements attendance.DailyRecordRepository.
func (r *dailyRecordRepositoryImpl) LatestByUsers(ctx context.Context, userIDs []string) (map[string]attendance.DailyRecord, error) {
	latest := make(map[string]attendance.DailyRecord, len(userIDs))
	if len(userIDs) == 0 {
		return latest, nil
	}

	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT DISTINCT ON (user_id) `+dailyRecordColumns+`
		FROM daily_records
		WHERE user_id = ANY($1)
		ORDER BY user_id, date DESC`,
		userIDs)
	if err != nil {
		return nil, database.Unavailable("latest daily records", err)
	}
	defer rows.Close()

	records, err := collectDailyRecords(rows)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		latest[rec.UserID] = rec
	}
	return latest, nil
}

// CountByDateAndStatus implements attendance.DailyRecordRepository.
func (r *dailyRecordRepositoryImpl) CountByDateAndStatus(ctx context.Context, date time.Time, status attendance.Status) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM daily_records WHERE date = $1 AND status = $2`,
		date, status).Scan(&total)
	if err != nil {
		return 0, database.Unavailable("count daily records", err)
	}
	return total, nil
}

func collectDailyRecords(rows pgx.Rows) ([]attendance.DailyRecord, error) {
	var records []attendance.DailyRecord
	for rows.Next() {
		rec, err := scanDailyRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Unavailable("read daily records", err)
	}
	return records, nil
}
