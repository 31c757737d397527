package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires the public, customer, and provider route groups.
func NewRouter(interests InterestAPI, bookings BookingAPI, discounts DiscountAPI, corsOrigins []string, logger *log.Logger) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", HealthHandler)
	r.Get("/discounts", HandleListDiscounts(discounts))
	r.Get("/discounts/{discountID}", HandleGetDiscount(discounts))

	r.Group(func(r chi.Router) {
		r.Use(RequireActor)

		r.Post("/interests", HandleRegisterInterest(interests))
		r.Get("/interests", HandleListInterests(interests))
		r.Delete("/interests/{interestID}", HandleRemoveInterest(interests))
		r.Post("/interests/book", HandleBookSlot(bookings))
		r.Post("/interests/accept-suggestion", HandleAcceptSuggestion(bookings))

		r.Route("/provider", func(r chi.Router) {
			r.Post("/discounts", HandleCreateDiscount(discounts))
			r.Delete("/discounts/{discountID}", HandleDeleteDiscount(discounts))
			r.Post("/discounts/{discountID}/reconcile-codes", HandleReconcileCodes(interests))
			r.Route("/discounts/{discountID}/customers/{customerID}", func(r chi.Router) {
				r.Post("/approve-booking", HandleApproveBooking(bookings))
				r.Post("/suggest-slot", HandleSuggestSlot(bookings))
				r.Post("/submit-promo-code", HandleSubmitPromoCode(bookings))
			})
		})
	})

	return RequestLogger(CORS(corsOrigins, r), logger)
}
