package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/seralva/groupdeals/internal/domain"
)

// InterestAPI is the interest-registration surface the handlers need.
type InterestAPI interface {
	RegisterInterest(ctx context.Context, actor domain.Actor, discountID string) (domain.Interest, error)
	RemoveInterest(ctx context.Context, actor domain.Actor, interestID string) error
	ListInterests(ctx context.Context, actor domain.Actor) ([]domain.Interest, error)
	ReconcileMissingCodes(ctx context.Context, actor domain.Actor, discountID string) (int, error)
}

// HandleRegisterInterest returns the handler for POST /interests.
func HandleRegisterInterest(svc InterestAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req registerInterestRequest
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

		interest, err := svc.RegisterInterest(r.Context(), actor, req.DiscountID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toInterestResponse(interest))
	}
}

// HandleListInterests returns the handler for GET /interests.
func HandleListInterests(svc InterestAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		interests, err := svc.ListInterests(r.Context(), actor)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := make([]interestResponse, 0, len(interests))
		for _, in := range interests {
			out = append(out, toInterestResponse(in))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// HandleRemoveInterest returns the handler for DELETE /interests/{interestID}.
func HandleRemoveInterest(svc InterestAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		interestID := chi.URLParam(r, "interestID")
		if interestID == "" {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "interest id is required")
			return
		}

		if err := svc.RemoveInterest(r.Context(), actor, interestID); err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
	}
}

// HandleReconcileCodes returns the handler for
// POST /provider/discounts/{discountID}/reconcile-codes.
func HandleReconcileCodes(svc InterestAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		issued, err := svc.ReconcileMissingCodes(r.Context(), actor, chi.URLParam(r, "discountID"))
		if err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]int{"issued": issued})
	}
}

type registerInterestRequest struct {
	DiscountID string `json:"discount_id"`
}

type interestResponse struct {
	ID            string    `json:"id"`
	DiscountID    string    `json:"discount_id"`
	CustomerID    string    `json:"customer_id"`
	PromoCode     string    `json:"promo_code,omitempty"`
	Redeemed      bool      `json:"redeemed"`
	BookingStatus string    `json:"booking_status"`
	BookingDate   *string   `json:"booking_date,omitempty"`
	BookingTime   *string   `json:"booking_time,omitempty"`
	SuggestedDate *string   `json:"suggested_date,omitempty"`
	SuggestedTime *string   `json:"suggested_time,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toInterestResponse(in domain.Interest) interestResponse {
	resp := interestResponse{
		ID:            in.ID,
		DiscountID:    in.DiscountID,
		CustomerID:    in.CustomerID,
		PromoCode:     in.PromoCode,
		Redeemed:      in.Redeemed,
		BookingStatus: string(in.Status),
		CreatedAt:     in.CreatedAt,
	}
	if in.Booking != nil {
		date := in.Booking.Date.Format("2006-01-02")
		t := in.Booking.Time
		resp.BookingDate, resp.BookingTime = &date, &t
	}
	if in.Suggestion != nil {
		date := in.Suggestion.Date.Format("2006-01-02")
		t := in.Suggestion.Time
		resp.SuggestedDate, resp.SuggestedTime = &date, &t
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
