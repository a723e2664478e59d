package attendance

import (
	"context"
	"iter"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
)

// AttendanceService is the approval-gated clock state machine.
type AttendanceService interface {
	// ClockIn moves today's key from NotStarted to ClockedIn.
	ClockIn(ctx context.Context, caller auth.Identity, at time.Time) (RecordResponse, error)

	// ClockOut moves today's key from ClockedIn to Completed.
	ClockOut(ctx context.Context, caller auth.Identity, at time.Time) (RecordResponse, error)

	// Today returns the caller's record for today's key or ErrNoRecordToday.
	Today(ctx context.Context, caller auth.Identity, at time.Time) (RecordResponse, error)
}

// AggregatorService derives read models from the clock ledger.
type AggregatorService interface {
	// History yields the user's records in range ordered by date ascending.
	// The sequence reads the ledger when iterated and may be ranged more than once.
	History(ctx context.Context, userID string, rng DateRange) iter.Seq2[RecordResponse, error]

	// WeeklySummary returns seven Monday..Sunday entries for the week containing weekOf.
	WeeklySummary(ctx context.Context, userID string, weekOf time.Time) (WeeklySummaryResponse, error)

	// ActiveToday counts users whose record for asOf's date key is ClockedIn.
	ActiveToday(ctx context.Context, asOf time.Time) (int64, error)
}
