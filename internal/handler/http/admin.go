package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AdminHandler interface {
	Roster(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	ActiveToday(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	rosterService   roster.RosterService
	approvalService approval.ApprovalService
	now             func() time.Time
}

func NewAdminHandler(rosterService roster.RosterService, approvalService approval.ApprovalService, now func() time.Time) AdminHandler {
	return &adminHandlerImpl{
		rosterService:   rosterService,
		approvalService: approvalService,
		now:             now,
	}
}

// Roster implements AdminHandler.
func (h *adminHandlerImpl) Roster(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	filter := roster.Filter{Search: r.URL.Query().Get("search")}
	result, err := h.rosterService.List(r.Context(), caller, filter, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary implements AdminHandler.
func (h *adminHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	result, err := h.rosterService.Summary(r.Context(), caller, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ActiveToday implements AdminHandler.
func (h *adminHandlerImpl) ActiveToday(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	count, err := h.rosterService.ActiveToday(r.Context(), caller, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{"active_today": count})
}

// Approve implements AdminHandler.
func (h *adminHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	result, err := h.approvalService.Approve(r.Context(), caller, chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User approved", result)
}

// Reject implements AdminHandler.
func (h *adminHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	result, err := h.approvalService.Reject(r.Context(), caller, chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User rejected", result)
}
