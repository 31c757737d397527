package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/seralva/groupdeals/internal/app"
	"github.com/seralva/groupdeals/internal/clock"
	"github.com/seralva/groupdeals/internal/domain"
	"github.com/seralva/groupdeals/internal/storage/postgres"
	"github.com/seralva/groupdeals/internal/testutil"
	transporthttp "github.com/seralva/groupdeals/internal/transport/http"
)

type nopSink struct{}

func (nopSink) Emit(domain.Event) {}

// Full lifecycle against a real database: offer creation, two registrations
// crossing the threshold, slot booking, approval, and code redemption.
func TestAPI_Lifecycle(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	logger := log.New(io.Discard, "", 0)
	clk := clock.NewSystem()
	interestRepo := postgres.NewInterestRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	discountRepo := postgres.NewDiscountRepository(pool)

	interests := app.NewInterestService(interestRepo, clk, nopSink{}, app.WithInterestLogger(logger))
	bookings := app.NewBookingService(bookingRepo, clk, nopSink{})
	discounts := app.NewDiscountService(discountRepo, clk)

	server := httptest.NewServer(transporthttp.NewRouter(interests, bookings, discounts, nil, logger))
	defer server.Close()

	providerID := uuid.NewString()
	customerA := uuid.NewString()
	customerB := uuid.NewString()

	today := domain.DateOf(time.Now().UTC())
	start := today.AddDate(0, 0, 1).Format("2006-01-02")
	end := today.AddDate(0, 2, 0).Format("2006-01-02")
	slotDate := today.AddDate(0, 0, 10).Format("2006-01-02")

	// Provider publishes an offer needing two interested customers.
	createBody := fmt.Sprintf(`{
		"service_id": %q,
		"discount_percentage": 30,
		"price_cents": 10000,
		"discount_start_date": %q,
		"discount_end_date": %q,
		"required_interest_count": 2
	}`, uuid.NewString(), start, end)
	var created struct {
		ID       string `json:"id"`
		IsActive bool   `json:"is_active"`
	}
	doJSON(t, server, http.MethodPost, "/provider/discounts", createBody,
		providerID, "provider", http.StatusCreated, &created)
	if created.IsActive {
		t.Fatalf("expected fresh discount inactive")
	}

	// First registration stays below the threshold.
	var first struct {
		PromoCode string `json:"promo_code"`
	}
	doJSON(t, server, http.MethodPost, "/interests",
		fmt.Sprintf(`{"discount_id":%q}`, created.ID),
		customerA, "customer", http.StatusCreated, &first)
	if first.PromoCode != "" {
		t.Fatalf("expected no code below threshold, got %q", first.PromoCode)
	}

	// Second registration activates the discount and yields a code.
	var second struct {
		PromoCode string `json:"promo_code"`
	}
	doJSON(t, server, http.MethodPost, "/interests",
		fmt.Sprintf(`{"discount_id":%q}`, created.ID),
		customerB, "customer", http.StatusCreated, &second)
	if len(second.PromoCode) != 8 {
		t.Fatalf("expected 8-char code after activation, got %q", second.PromoCode)
	}

	var discount struct {
		IsActive bool `json:"is_active"`
	}
	doJSON(t, server, http.MethodGet, "/discounts/"+created.ID, "",
		"", "", http.StatusOK, &discount)
	if !discount.IsActive {
		t.Fatalf("expected discount active after second registration")
	}

	// The first customer's code landed in the same activation pass.
	var mine []struct {
		PromoCode string `json:"promo_code"`
	}
	doJSON(t, server, http.MethodGet, "/interests", "",
		customerA, "customer", http.StatusOK, &mine)
	if len(mine) != 1 || len(mine[0].PromoCode) != 8 {
		t.Fatalf("expected first customer to hold a code, got %+v", mine)
	}
	if mine[0].PromoCode == second.PromoCode {
		t.Fatalf("expected distinct codes per customer")
	}

	// Customer A books a slot; customer B colliding on it conflicts.
	bookBody := fmt.Sprintf(`{"discount_id":%q,"date":%q,"time":"10:30"}`, created.ID, slotDate)
	var bookedA struct {
		BookingStatus string `json:"booking_status"`
	}
	doJSON(t, server, http.MethodPost, "/interests/book", bookBody,
		customerA, "customer", http.StatusOK, &bookedA)
	if bookedA.BookingStatus != "pending" {
		t.Fatalf("expected pending, got %q", bookedA.BookingStatus)
	}
	doJSON(t, server, http.MethodPost, "/interests/book", bookBody,
		customerB, "customer", http.StatusConflict, nil)

	// Provider suggests an alternate slot to A; A accepts it.
	suggestPath := fmt.Sprintf("/provider/discounts/%s/customers/%s/suggest-slot", created.ID, customerA)
	suggestBody := fmt.Sprintf(`{"date":%q,"time":"14:00"}`, slotDate)
	doJSON(t, server, http.MethodPost, suggestPath, suggestBody,
		providerID, "provider", http.StatusOK, nil)

	var accepted struct {
		BookingStatus string  `json:"booking_status"`
		BookingTime   *string `json:"booking_time"`
	}
	doJSON(t, server, http.MethodPost, "/interests/accept-suggestion",
		fmt.Sprintf(`{"discount_id":%q}`, created.ID),
		customerA, "customer", http.StatusOK, &accepted)
	if accepted.BookingStatus != "approved" {
		t.Fatalf("expected approved, got %q", accepted.BookingStatus)
	}
	if accepted.BookingTime == nil || *accepted.BookingTime != "14:00" {
		t.Fatalf("expected adopted slot time, got %v", accepted.BookingTime)
	}

	// Provider redeems A's code; a wrong code conflicts first.
	submitPath := fmt.Sprintf("/provider/discounts/%s/customers/%s/submit-promo-code", created.ID, customerA)
	doJSON(t, server, http.MethodPost, submitPath, `{"code":"WRONG999"}`,
		providerID, "provider", http.StatusConflict, nil)

	var claimed struct {
		BookingStatus string `json:"booking_status"`
		Redeemed      bool   `json:"redeemed"`
	}
	doJSON(t, server, http.MethodPost, submitPath,
		fmt.Sprintf(`{"code":%q}`, mine[0].PromoCode),
		providerID, "provider", http.StatusOK, &claimed)
	if claimed.BookingStatus != "claimed" || !claimed.Redeemed {
		t.Fatalf("expected claimed and redeemed, got %+v", claimed)
	}

	// A claimed row rejects resubmission.
	doJSON(t, server, http.MethodPost, submitPath,
		fmt.Sprintf(`{"code":%q}`, mine[0].PromoCode),
		providerID, "provider", http.StatusConflict, nil)

	// Withdrawal is closed once the discount is active.
	var interestsB []struct {
		ID string `json:"id"`
	}
	doJSON(t, server, http.MethodGet, "/interests", "",
		customerB, "customer", http.StatusOK, &interestsB)
	if len(interestsB) != 1 {
		t.Fatalf("expected one interest for customer B, got %d", len(interestsB))
	}
	doJSON(t, server, http.MethodDelete, "/interests/"+interestsB[0].ID, "",
		customerB, "customer", http.StatusUnprocessableEntity, nil)
}

func doJSON(t *testing.T, server *httptest.Server, method, path, body, actorID, role string, wantStatus int, out any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if actorID != "" {
		req.Header.Set("X-Actor-Id", actorID)
		req.Header.Set("X-Actor-Role", role)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, wantStatus, resp.StatusCode, payload)
	}
	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, payload, err)
		}
	}
}
