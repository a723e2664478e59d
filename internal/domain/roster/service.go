package roster

import (
	"context"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
)

type RosterService interface {
	// List returns approved interns and pending applicants matching filter.
	List(ctx context.Context, caller auth.Identity, filter Filter, asOf time.Time) (ListResponse, error)

	// Summary returns the dashboard tiles.
	Summary(ctx context.Context, caller auth.Identity, asOf time.Time) (SummaryResponse, error)

	// ActiveToday returns the number of users clocked in for asOf's date key.
	ActiveToday(ctx context.Context, caller auth.Identity, asOf time.Time) (int64, error)
}
