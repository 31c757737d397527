package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seralva/groupdeals/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeUnauthenticated      = "unauthenticated"
	codeForbidden            = "forbidden"
	codeRoleNotAllowed       = "role_not_allowed"
	codeCapExceeded          = "cap_exceeded"
	codeGoalAlreadyReached   = "goal_already_reached"
	codeInterestWindowClosed = "interest_window_closed"
	codeAlreadyRegistered    = "already_registered"
	codeDiscountNotFound     = "discount_not_found"
	codeInterestNotFound     = "interest_not_found"
	codeDiscountActive       = "discount_active"
	codeDiscountNotActive    = "discount_not_active"
	codeInvalidSlot          = "invalid_slot"
	codeSlotOutsideWindow    = "slot_outside_window"
	codeSlotTaken            = "slot_taken"
	codeInvalidBookingState  = "invalid_booking_state"
	codeNoSuggestion         = "no_pending_suggestion"
	codePromoCodeMismatch    = "promo_code_mismatch"
	codeAlreadyClaimed       = "already_claimed"
	codeInvalidID            = "invalid_id"
	codeInvalidDiscount      = "invalid_discount"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// respondServiceError maps domain sentinels onto the HTTP error taxonomy.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoleNotAllowed):
		writeError(w, http.StatusForbidden, codeRoleNotAllowed, err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, domain.ErrInterestCapExceeded):
		writeError(w, http.StatusUnprocessableEntity, codeCapExceeded, err.Error())
	case errors.Is(err, domain.ErrGoalAlreadyReached):
		writeError(w, http.StatusUnprocessableEntity, codeGoalAlreadyReached, err.Error())
	case errors.Is(err, domain.ErrInterestWindowClosed):
		writeError(w, http.StatusUnprocessableEntity, codeInterestWindowClosed, err.Error())
	case errors.Is(err, domain.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, codeAlreadyRegistered, err.Error())
	case errors.Is(err, domain.ErrDiscountNotFound):
		writeError(w, http.StatusNotFound, codeDiscountNotFound, err.Error())
	case errors.Is(err, domain.ErrInterestNotFound):
		writeError(w, http.StatusNotFound, codeInterestNotFound, err.Error())
	case errors.Is(err, domain.ErrDiscountActive):
		writeError(w, http.StatusUnprocessableEntity, codeDiscountActive, err.Error())
	case errors.Is(err, domain.ErrDiscountNotActive):
		writeError(w, http.StatusUnprocessableEntity, codeDiscountNotActive, err.Error())
	case errors.Is(err, domain.ErrInvalidSlot):
		writeError(w, http.StatusBadRequest, codeInvalidSlot, err.Error())
	case errors.Is(err, domain.ErrSlotOutsideWindow):
		writeError(w, http.StatusUnprocessableEntity, codeSlotOutsideWindow, err.Error())
	case errors.Is(err, domain.ErrSlotTaken):
		writeError(w, http.StatusConflict, codeSlotTaken, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, codeInvalidBookingState, err.Error())
	case errors.Is(err, domain.ErrNoSuggestion):
		writeError(w, http.StatusUnprocessableEntity, codeNoSuggestion, err.Error())
	case errors.Is(err, domain.ErrPromoCodeMismatch):
		writeError(w, http.StatusConflict, codePromoCodeMismatch, err.Error())
	case errors.Is(err, domain.ErrAlreadyClaimed):
		writeError(w, http.StatusConflict, codeAlreadyClaimed, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidPercentage),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidRequiredCount),
		errors.Is(err, domain.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, codeInvalidDiscount, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
