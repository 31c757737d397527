package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/seralva/groupdeals/internal/domain"
	"github.com/seralva/groupdeals/internal/storage/postgres"
	"github.com/seralva/groupdeals/internal/testutil"
)

func TestBookingRepository_UpdateNegotiation(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := postgres.NewBookingRepository(pool)
	discountID := testutil.InsertDiscount(t, ctx, pool, futureDiscount(2))

	slotDate := domain.DateOf(time.Now().UTC()).AddDate(0, 1, 5)
	slot := domain.Slot{Date: slotDate, Time: "10:30"}

	firstCustomer := uuid.NewString()
	secondCustomer := uuid.NewString()
	testutil.InsertInterest(t, ctx, pool, domain.Interest{DiscountID: discountID, CustomerID: firstCustomer})
	testutil.InsertInterest(t, ctx, pool, domain.Interest{DiscountID: discountID, CustomerID: secondCustomer})

	first, err := repo.GetInterestForUpdate(ctx, discountID, firstCustomer)
	if err != nil {
		t.Fatalf("get interest: %v", err)
	}
	first.Status = domain.BookingPending
	first.Booking = &slot
	if err := repo.UpdateNegotiation(ctx, first); err != nil {
		t.Fatalf("book first: %v", err)
	}

	// The identical slot under the same discount is taken.
	second, err := repo.GetInterestForUpdate(ctx, discountID, secondCustomer)
	if err != nil {
		t.Fatalf("get second interest: %v", err)
	}
	second.Status = domain.BookingPending
	second.Booking = &slot
	if err := repo.UpdateNegotiation(ctx, second); !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// A different time on the same day is free.
	second.Booking = &domain.Slot{Date: slotDate, Time: "11:30"}
	if err := repo.UpdateNegotiation(ctx, second); err != nil {
		t.Fatalf("book different time: %v", err)
	}

	// Cancelling the first booking frees its slot.
	first.Status = domain.BookingCancelled
	if err := repo.UpdateNegotiation(ctx, first); err != nil {
		t.Fatalf("cancel first: %v", err)
	}
	second.Booking = &slot
	if err := repo.UpdateNegotiation(ctx, second); err != nil {
		t.Fatalf("expected slot freed after cancellation, got %v", err)
	}

	// Same slot under another discount never collides.
	otherDiscount := testutil.InsertDiscount(t, ctx, pool, futureDiscount(2))
	otherCustomer := uuid.NewString()
	testutil.InsertInterest(t, ctx, pool, domain.Interest{DiscountID: otherDiscount, CustomerID: otherCustomer})
	other, err := repo.GetInterestForUpdate(ctx, otherDiscount, otherCustomer)
	if err != nil {
		t.Fatalf("get other interest: %v", err)
	}
	other.Status = domain.BookingPending
	other.Booking = &slot
	if err := repo.UpdateNegotiation(ctx, other); err != nil {
		t.Fatalf("book under other discount: %v", err)
	}
}

func TestBookingRepository_SuggestionRoundTrip(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := postgres.NewBookingRepository(pool)
	discountID := testutil.InsertDiscount(t, ctx, pool, futureDiscount(1))
	customerID := uuid.NewString()
	testutil.InsertInterest(t, ctx, pool, domain.Interest{DiscountID: discountID, CustomerID: customerID})

	slotDate := domain.DateOf(time.Now().UTC()).AddDate(0, 1, 5)
	booked := domain.Slot{Date: slotDate, Time: "10:30"}
	suggested := domain.Slot{Date: slotDate.AddDate(0, 0, 1), Time: "14:00"}

	in, err := repo.GetInterestForUpdate(ctx, discountID, customerID)
	if err != nil {
		t.Fatalf("get interest: %v", err)
	}
	in.Status = domain.BookingSuggested
	in.Booking = &booked
	in.Suggestion = &suggested
	if err := repo.UpdateNegotiation(ctx, in); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetInterestForUpdate(ctx, discountID, customerID)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if got.Status != domain.BookingSuggested {
		t.Fatalf("expected suggested, got %s", got.Status)
	}
	if got.Booking == nil || !got.Booking.Date.Equal(booked.Date) || got.Booking.Time != "10:30" {
		t.Fatalf("unexpected booking %+v", got.Booking)
	}
	if got.Suggestion == nil || got.Suggestion.Time != "14:00" {
		t.Fatalf("unexpected suggestion %+v", got.Suggestion)
	}

	// Accepting: the suggestion becomes the booking and is cleared.
	got.Booking = got.Suggestion
	got.Suggestion = nil
	got.Status = domain.BookingApproved
	if err := repo.UpdateNegotiation(ctx, got); err != nil {
		t.Fatalf("accept: %v", err)
	}
	final, err := repo.GetInterestForUpdate(ctx, discountID, customerID)
	if err != nil {
		t.Fatalf("final read: %v", err)
	}
	if final.Suggestion != nil {
		t.Fatalf("expected suggestion cleared, got %+v", final.Suggestion)
	}
	if final.Booking == nil || final.Booking.Time != "14:00" {
		t.Fatalf("expected adopted booking, got %+v", final.Booking)
	}
}

func TestBookingRepository_MissingInterest(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := postgres.NewBookingRepository(pool)
	discountID := testutil.InsertDiscount(t, ctx, pool, futureDiscount(1))

	_, err := repo.GetInterestForUpdate(ctx, discountID, uuid.NewString())
	if !errors.Is(err, domain.ErrInterestNotFound) {
		t.Fatalf("expected ErrInterestNotFound, got %v", err)
	}

	err = repo.UpdateNegotiation(ctx, domain.Interest{ID: uuid.NewString(), Status: domain.BookingPending})
	if !errors.Is(err, domain.ErrInterestNotFound) {
		t.Fatalf("expected ErrInterestNotFound on update, got %v", err)
	}
}
