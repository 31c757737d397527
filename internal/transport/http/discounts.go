package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/seralva/groupdeals/internal/app"
	"github.com/seralva/groupdeals/internal/domain"
)

// DiscountAPI is the offer administration and browsing surface.
type DiscountAPI interface {
	CreateDiscount(ctx context.Context, actor domain.Actor, in app.CreateDiscountInput) (domain.Discount, error)
	GetDiscount(ctx context.Context, discountID string) (domain.Discount, error)
	ListDiscounts(ctx context.Context) ([]domain.Discount, error)
	DeleteDiscount(ctx context.Context, actor domain.Actor, discountID string) error
}

// HandleListDiscounts returns the handler for GET /discounts.
func HandleListDiscounts(svc DiscountAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discounts, err := svc.ListDiscounts(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := make([]discountResponse, 0, len(discounts))
		for _, d := range discounts {
			out = append(out, toDiscountResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// HandleGetDiscount returns the handler for GET /discounts/{discountID}.
func HandleGetDiscount(svc DiscountAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discount, err := svc.GetDiscount(r.Context(), chi.URLParam(r, "discountID"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDiscountResponse(discount))
	}
}

// HandleCreateDiscount returns the handler for POST /provider/discounts.
func HandleCreateDiscount(svc DiscountAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req createDiscountRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, err.Error())
			return
		}

		discount, err := svc.CreateDiscount(r.Context(), actor, in)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDiscountResponse(discount))
	}
}

// HandleDeleteDiscount returns the handler for DELETE /provider/discounts/{discountID}.
func HandleDeleteDiscount(svc DiscountAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteDiscount(r.Context(), actor, chi.URLParam(r, "discountID")); err != nil {
			respondServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

type createDiscountRequest struct {
	ServiceID             string `json:"service_id"`
	DiscountPercentage    int    `json:"discount_percentage"`
	PriceCents            int64  `json:"price_cents"`
	InterestFrom          string `json:"interest_from_date,omitempty"`
	InterestTo            string `json:"interest_to_date,omitempty"`
	DiscountStart         string `json:"discount_start_date"`
	DiscountEnd           string `json:"discount_end_date"`
	RequiredInterestCount int    `json:"required_interest_count"`
}

func (r createDiscountRequest) toInput() (app.CreateDiscountInput, error) {
	in := app.CreateDiscountInput{
		ServiceID:             r.ServiceID,
		DiscountPercentage:    r.DiscountPercentage,
		PriceCents:            r.PriceCents,
		RequiredInterestCount: r.RequiredInterestCount,
	}

	var err error
	if in.DiscountStart, err = parseDate(r.DiscountStart); err != nil {
		return app.CreateDiscountInput{}, err
	}
	if in.DiscountEnd, err = parseDate(r.DiscountEnd); err != nil {
		return app.CreateDiscountInput{}, err
	}
	if r.InterestFrom != "" {
		from, err := parseDate(r.InterestFrom)
		if err != nil {
			return app.CreateDiscountInput{}, err
		}
		in.InterestFrom = &from
	}
	if r.InterestTo != "" {
		to, err := parseDate(r.InterestTo)
		if err != nil {
			return app.CreateDiscountInput{}, err
		}
		in.InterestTo = &to
	}
	return in, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

type discountResponse struct {
	ID                      string `json:"id"`
	ProviderID              string `json:"provider_id"`
	ServiceID               string `json:"service_id"`
	DiscountPercentage      int    `json:"discount_percentage"`
	PriceCents              int64  `json:"price_cents"`
	PriceAfterDiscountCents int64  `json:"price_after_discount_cents"`
	InterestFrom            string `json:"interest_from_date,omitempty"`
	InterestTo              string `json:"interest_to_date,omitempty"`
	DiscountStart           string `json:"discount_start_date"`
	DiscountEnd             string `json:"discount_end_date"`
	RequiredInterestCount   int    `json:"required_interest_count"`
	CurrentInterestCount    int    `json:"current_interest_count"`
	IsActive                bool   `json:"is_active"`
}

func toDiscountResponse(d domain.Discount) discountResponse {
	resp := discountResponse{
		ID:                      d.ID,
		ProviderID:              d.ProviderID,
		ServiceID:               d.ServiceID,
		DiscountPercentage:      d.DiscountPercentage,
		PriceCents:              d.PriceCents,
		PriceAfterDiscountCents: d.PriceAfterDiscountCents,
		DiscountStart:           d.DiscountStart.Format("2006-01-02"),
		DiscountEnd:             d.DiscountEnd.Format("2006-01-02"),
		RequiredInterestCount:   d.RequiredInterestCount,
		CurrentInterestCount:    d.CurrentInterestCount,
		IsActive:                d.IsActive,
	}
	if d.HasInterestWindow() {
		resp.InterestFrom = d.InterestFrom.Format("2006-01-02")
		resp.InterestTo = d.InterestTo.Format("2006-01-02")
	}
	return resp
}
