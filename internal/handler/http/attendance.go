package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/dtrtime"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	WeeklySummary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	aggregatorService attendance.AggregatorService
	zone              dtrtime.Zone
	now               func() time.Time
}

func NewAttendanceHandler(
	attendanceService attendance.AttendanceService,
	aggregatorService attendance.AggregatorService,
	zone dtrtime.Zone,
	now func() time.Time,
) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		aggregatorService: aggregatorService,
		zone:              zone,
		now:               now,
	}
}

// callerFrom returns the authenticated identity or writes a 401.
func callerFrom(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
	}
	return identity, ok
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.ClockIn(r.Context(), caller, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), caller, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.Today(r.Context(), caller, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	var errs validator.ValidationErrors
	rng := attendance.DateRange{
		From: validator.OptionalDate(&errs, "start_date", query.Get("start_date")),
		To:   validator.OptionalDate(&errs, "end_date", query.Get("end_date")),
	}
	if rng.From != nil && rng.To != nil && rng.From.After(*rng.To) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result := attendance.ListRecordResponse{Records: []attendance.RecordResponse{}}
	for rec, err := range h.aggregatorService.History(r.Context(), caller.UserID, rng) {
		if err != nil {
			response.HandleError(w, err)
			return
		}
		result.Records = append(result.Records, rec)
	}
	result.Total = len(result.Records)

	response.Success(w, result)
}

// WeeklySummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	weekOf := validator.OptionalDate(&errs, "week", r.URL.Query().Get("week"))
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}
	if weekOf == nil {
		today := h.zone.DateKey(h.now())
		weekOf = &today
	}

	result, err := h.aggregatorService.WeeklySummary(r.Context(), caller.UserID, *weekOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
