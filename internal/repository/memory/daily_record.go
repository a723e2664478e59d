package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
)

// userLedger holds one user's records keyed by date. Its mutex serializes
// writes for that user's keys only.
type userLedger struct {
	mu      sync.Mutex
	records map[string]attendance.DailyRecord
}

type dailyRecordRepository struct {
	mu      sync.RWMutex
	ledgers map[string]*userLedger
}

func NewDailyRecordRepository() attendance.DailyRecordRepository {
	return &dailyRecordRepository{
		ledgers: make(map[string]*userLedger),
	}
}

func (r *dailyRecordRepository) ledger(userID string, create bool) *userLedger {
	r.mu.RLock()
	l, ok := r.ledgers[userID]
	r.mu.RUnlock()
	if ok || !create {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok = r.ledgers[userID]; ok {
		return l
	}
	l = &userLedger{records: make(map[string]attendance.DailyRecord)}
	r.ledgers[userID] = l
	return l
}

func (r *dailyRecordRepository) snapshot() map[string]*userLedger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*userLedger, len(r.ledgers))
	for id, l := range r.ledgers {
		out[id] = l
	}
	return out
}

// Insert implements attendance.DailyRecordRepository.
func (r *dailyRecordRepository) Insert(ctx context.Context, rec attendance.DailyRecord) (attendance.DailyRecord, error) {
	l := r.ledger(rec.UserID, true)
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.records[dateKey(rec.Date)]; exists {
		return attendance.DailyRecord{}, attendance.ErrAlreadyClockedIn
	}

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	l.records[dateKey(rec.Date)] = rec
	return rec, nil
}

// Update implements attendance.DailyRecordRepository.
func (r *dailyRecordRepository) Update(ctx context.Context, userID string, date time.Time, fn func(rec *attendance.DailyRecord) error) (attendance.DailyRecord, error) {
	l := r.ledger(userID, false)
	if l == nil {
		return attendance.DailyRecord{}, attendance.ErrNoRecordToday
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[dateKey(date)]
	if !ok {
		return attendance.DailyRecord{}, attendance.ErrNoRecordToday
	}

	working := rec
	if rec.ClockOut != nil {
		out := *rec.ClockOut
		working.ClockOut = &out
	}
	if err := fn(&working); err != nil {
		return attendance.DailyRecord{}, err
	}

	working.UpdatedAt = time.Now().UTC()
	l.records[dateKey(date)] = working
	return working, nil
}

// GetByUserAndDate implements attendance.DailyRecordRepository.
func (r *dailyRecordRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.DailyRecord, error) {
	l := r.ledger(userID, false)
	if l == nil {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[dateKey(date)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// ListByUser implements attendance.DailyRecordRepository.
func (r *dailyRecordRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.DailyRecord, error) {
	l := r.ledger(userID, false)
	if l == nil {
		return nil, nil
	}
	l.mu.Lock()
	records := make([]attendance.DailyRecord, 0, len(l.records))
	for _, rec := range l.records {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		records = append(records, rec)
	}
	l.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

// LatestByUsers implements attendance.DailyRecordRepository.
func (r *dailyRecordRepository) LatestByUsers(ctx context.Context, userIDs []string) (map[string]attendance.DailyRecord, error) {
	latest := make(map[string]attendance.DailyRecord, len(userIDs))
	for _, id := range userIDs {
		l := r.ledger(id, false)
		if l == nil {
			continue
		}
		l.mu.Lock()
		var (
			best  attendance.DailyRecord
			found bool
		)
		for _, rec := range l.records {
			if !found || rec.Date.After(best.Date) {
				best, found = rec, true
			}
		}
		l.mu.Unlock()
		if found {
			latest[id] = best
		}
	}
	return latest, nil
}

// CountByDateAndStatus implements attendance.DailyRecordRepository.
func (r *dailyRecordRepository) CountByDateAndStatus(ctx context.Context, date time.Time, status attendance.Status) (int64, error) {
	var n int64
	for _, l := range r.snapshot() {
		l.mu.Lock()
		if rec, ok := l.records[dateKey(date)]; ok && rec.Status == status {
			n++
		}
		l.mu.Unlock()
	}
	return n, nil
}

func dateKey(date time.Time) string {
	return date.UTC().Format("2006-01-02")
}
