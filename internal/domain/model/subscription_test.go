package model

import (
	"testing"
	"time"

	"compta-billing-platform/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestDeriveStatus_DateBoundaries(t *testing.T) {
	t.Parallel()

	today := date(2026, time.March, 1)

	cases := []struct {
		name string
		end  time.Time
		want DerivedStatus
	}{
		{"exactly 30 days out", today.AddDate(0, 0, 30), DerivedExpiringSoon},
		{"31 days out", today.AddDate(0, 0, 31), DerivedActive},
		{"today", today, DerivedExpiringSoon},
		{"yesterday", today.AddDate(0, 0, -1), DerivedExpired},
		{"far future", today.AddDate(1, 0, 0), DerivedActive},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			end := tc.end
			got := DeriveStatus(&end, StatusActive, ValidationApproved, today)
			if got != tc.want {
				t.Fatalf("DeriveStatus(%s) = %q, want %q", tc.end.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestDeriveStatus_ValidationOverridesDates(t *testing.T) {
	t.Parallel()

	today := date(2026, time.March, 1)
	farFuture := today.AddDate(2, 0, 0)
	longAgo := today.AddDate(-2, 0, 0)

	for _, end := range []time.Time{farFuture, longAgo} {
		end := end
		if got := DeriveStatus(&end, StatusActive, ValidationPending, today); got != DerivedPending {
			t.Fatalf("pending validation with end %s: got %q, want %q", end.Format("2006-01-02"), got, DerivedPending)
		}
		if got := DeriveStatus(&end, StatusActive, ValidationRefused, today); got != DerivedRefused {
			t.Fatalf("refused validation with end %s: got %q, want %q", end.Format("2006-01-02"), got, DerivedRefused)
		}
	}
}

func TestDeriveStatus_NilEndDate(t *testing.T) {
	t.Parallel()

	today := time.Now()
	if got := DeriveStatus(nil, StatusActive, ValidationApproved, today); got != DerivedNone {
		t.Fatalf("nil end date: got %q, want %q", got, DerivedNone)
	}
}

func TestDeriveStatus_UnknownValidationFallsBack(t *testing.T) {
	t.Parallel()

	today := time.Now()
	end := today.AddDate(0, 0, 10)
	got := DeriveStatus(&end, StatusExpired, ValidationState("legacy"), today)
	if got != DerivedStatus(StatusExpired) {
		t.Fatalf("unknown validation state: got %q, want persisted %q", got, StatusExpired)
	}
}

func TestDaysUntil_IgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, time.March, 1, 23, 50, 0, 0, time.Local)
	end := time.Date(2026, time.March, 2, 0, 5, 0, 0, time.Local)
	if got := DaysUntil(end, today); got != 1 {
		t.Fatalf("DaysUntil = %d, want 1", got)
	}
}

func TestNewSubscription_EndBeforeStart(t *testing.T) {
	t.Parallel()

	plan := &Plan{ID: "p1", Name: "Starter", MaxSpaceMB: 512, Price: 500}
	start := date(2026, time.March, 1)
	if _, err := NewSubscription("s1", "c1", plan, start, start.AddDate(0, 0, -1), 500, TypeInitial); err != domain.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestNewSubscription_PastEndDatePersistsExpired(t *testing.T) {
	t.Parallel()

	plan := &Plan{ID: "p1", Name: "Starter", MaxSpaceMB: 512, Price: 500}
	start := time.Now().AddDate(-1, 0, 0)
	end := time.Now().AddDate(0, 0, -10)

	sub, err := NewSubscription("s1", "c1", plan, start, end, 500, TypeInitial)
	if err != nil {
		t.Fatalf("NewSubscription: %v", err)
	}
	if sub.Status != StatusExpired {
		t.Fatalf("persisted status = %q, want %q", sub.Status, StatusExpired)
	}
	if sub.Validation != ValidationPending {
		t.Fatalf("validation = %q, want %q", sub.Validation, ValidationPending)
	}
}

func TestSubscription_ValidateAndReject(t *testing.T) {
	t.Parallel()

	sub := &Subscription{ID: "s1", Validation: ValidationPending}
	if err := sub.Validate(); err != nil {
		t.Fatalf("validate pending: %v", err)
	}
	if sub.Validation != ValidationApproved {
		t.Fatalf("validation = %q, want %q", sub.Validation, ValidationApproved)
	}
	// no transition out of approved
	if err := sub.Reject("late payment"); err != domain.ErrInvalidTransition {
		t.Fatalf("reject approved: got %v, want ErrInvalidTransition", err)
	}

	sub2 := &Subscription{ID: "s2", Validation: ValidationPending}
	if err := sub2.Reject("   "); err != domain.ErrReasonRequired {
		t.Fatalf("blank reason: got %v, want ErrReasonRequired", err)
	}
	if sub2.Validation != ValidationPending {
		t.Fatalf("blank reason must not transition, got %q", sub2.Validation)
	}
	if err := sub2.Reject("missing justificatif"); err != nil {
		t.Fatalf("reject pending: %v", err)
	}
	if sub2.RejectionReason != "missing justificatif" {
		t.Fatalf("reason = %q", sub2.RejectionReason)
	}
	// refused subscriptions cannot be reactivated
	if err := sub2.Validate(); err != domain.ErrInvalidTransition {
		t.Fatalf("validate refused: got %v, want ErrInvalidTransition", err)
	}
}

func TestSubscription_Renew(t *testing.T) {
	t.Parallel()

	sub := &Subscription{
		ID:              "s1",
		StartDate:       date(2025, time.January, 1),
		EndDate:         date(2025, time.December, 31),
		Amount:          1000,
		Status:          StatusExpired,
		Validation:      ValidationRefused,
		Type:            TypeInitial,
		RejectionReason: "old reason",
	}
	start := date(2026, time.January, 1)
	end := date(2026, time.December, 31)
	if err := sub.Renew(start, end, 750); err != nil {
		t.Fatalf("renew: %v", err)
	}
	if sub.Status != StatusActive || sub.Validation != ValidationApproved {
		t.Fatalf("renew must reset state, got statut=%q etat=%q", sub.Status, sub.Validation)
	}
	if sub.Type != TypeRenewal {
		t.Fatalf("type = %q, want %q", sub.Type, TypeRenewal)
	}
	if sub.RejectionReason != "" {
		t.Fatalf("renew must clear rejection reason, got %q", sub.RejectionReason)
	}
	if !sub.EndDate.Equal(end) || sub.Amount != 750 {
		t.Fatalf("renew did not apply new period/amount")
	}
}
