package domain

import (
	"testing"
	"time"
)

func TestBookingStatus_CanTransition(t *testing.T) {
	t.Parallel()

	allowed := []struct {
		from, to BookingStatus
	}{
		{BookingNone, BookingPending},
		{BookingPending, BookingApproved},
		{BookingPending, BookingSuggested},
		{BookingSuggested, BookingApproved},
		{BookingApproved, BookingClaimed},
	}
	for _, tt := range allowed {
		if !tt.from.CanTransition(tt.to) {
			t.Errorf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}

	denied := []struct {
		from, to BookingStatus
	}{
		{BookingNone, BookingApproved},
		{BookingNone, BookingClaimed},
		{BookingPending, BookingClaimed},
		{BookingSuggested, BookingPending},
		{BookingApproved, BookingPending},
		{BookingClaimed, BookingApproved},
		{BookingClaimed, BookingClaimed},
		{BookingCancelled, BookingPending},
	}
	for _, tt := range denied {
		if tt.from.CanTransition(tt.to) {
			t.Errorf("expected %s -> %s to be denied", tt.from, tt.to)
		}
	}
}

func TestNewSlot(t *testing.T) {
	t.Parallel()

	slot, err := NewSlot("2024-05-01", "10:00")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !slot.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, slot.Date)
	}
	if slot.Time != "10:00" {
		t.Fatalf("expected time 10:00, got %s", slot.Time)
	}

	// Unpadded hours normalize to the canonical spelling, so both forms name
	// the same slot.
	padded, err := NewSlot("2024-05-01", "09:30")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	unpadded, err := NewSlot("2024-05-01", "9:30")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if unpadded.Time != "09:30" {
		t.Fatalf("expected canonical time 09:30, got %s", unpadded.Time)
	}
	if !padded.Equal(unpadded) {
		t.Fatalf("expected %v and %v to be the same slot", padded, unpadded)
	}

	invalid := [][2]string{
		{"2024-13-01", "10:00"},
		{"not-a-date", "10:00"},
		{"2024-05-01", "25:00"},
		{"2024-05-01", "10am"},
		{"", "10:00"},
		{"2024-05-01", ""},
	}
	for _, in := range invalid {
		if _, err := NewSlot(in[0], in[1]); err != ErrInvalidSlot {
			t.Errorf("NewSlot(%q, %q): expected ErrInvalidSlot, got %v", in[0], in[1], err)
		}
	}
}
