package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/seralva/groupdeals/internal/domain"
)

// BookingAPI is the slot negotiation surface the handlers need.
type BookingAPI interface {
	BookSlot(ctx context.Context, actor domain.Actor, discountID string, slot domain.Slot) (domain.Interest, error)
	AcceptSuggestion(ctx context.Context, actor domain.Actor, discountID string) (domain.Interest, error)
	ApproveBooking(ctx context.Context, actor domain.Actor, discountID, customerID string) (domain.Interest, error)
	SuggestSlot(ctx context.Context, actor domain.Actor, discountID, customerID string, slot domain.Slot) (domain.Interest, error)
	SubmitPromoCode(ctx context.Context, actor domain.Actor, discountID, customerID, code string) (domain.Interest, error)
}

// HandleBookSlot returns the handler for POST /interests/book.
func HandleBookSlot(svc BookingAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req bookSlotRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.DiscountID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "discount_id is required")
			return
		}
		slot, err := domain.NewSlot(req.Date, req.Time)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		interest, err := svc.BookSlot(r.Context(), actor, req.DiscountID, slot)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toInterestResponse(interest))
	}
}

// HandleAcceptSuggestion returns the handler for POST /interests/accept-suggestion.
func HandleAcceptSuggestion(svc BookingAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req acceptSuggestionRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.DiscountID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "discount_id is required")
			return
		}

		interest, err := svc.AcceptSuggestion(r.Context(), actor, req.DiscountID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toInterestResponse(interest))
	}
}

// HandleApproveBooking returns the handler for
// POST /provider/discounts/{discountID}/customers/{customerID}/approve-booking.
func HandleApproveBooking(svc BookingAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		interest, err := svc.ApproveBooking(r.Context(), actor,
			chi.URLParam(r, "discountID"), chi.URLParam(r, "customerID"))
		if err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toInterestResponse(interest))
	}
}

// HandleSuggestSlot returns the handler for
// POST /provider/discounts/{discountID}/customers/{customerID}/suggest-slot.
func HandleSuggestSlot(svc BookingAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req suggestSlotRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		slot, err := domain.NewSlot(req.Date, req.Time)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		interest, err := svc.SuggestSlot(r.Context(), actor,
			chi.URLParam(r, "discountID"), chi.URLParam(r, "customerID"), slot)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toInterestResponse(interest))
	}
}

// HandleSubmitPromoCode returns the handler for
// POST /provider/discounts/{discountID}/customers/{customerID}/submit-promo-code.
func HandleSubmitPromoCode(svc BookingAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req submitPromoCodeRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Code == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "code is required")
			return
		}

		interest, err := svc.SubmitPromoCode(r.Context(), actor,
			chi.URLParam(r, "discountID"), chi.URLParam(r, "customerID"), req.Code)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toInterestResponse(interest))
	}
}

type bookSlotRequest struct {
	DiscountID string `json:"discount_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

type acceptSuggestionRequest struct {
	DiscountID string `json:"discount_id"`
}

type suggestSlotRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type submitPromoCodeRequest struct {
	Code string `json:"code"`
}
