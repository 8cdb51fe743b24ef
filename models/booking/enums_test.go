package booking

import "testing"

func TestParseBookingAction(t *testing.T) {
	for _, name := range []string{"approve", "reject", "cancel", "soft_delete", "restore", "reschedule"} {
		a, ok := ParseBookingAction(name)
		if !ok || string(a) != name {
			t.Fatalf("expected %q to parse, got %q ok=%v", name, a, ok)
		}
	}
	for _, name := range []string{"expire", "APPROVE", "delete", ""} {
		if _, ok := ParseBookingAction(name); ok {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestAllowedFrom_DeletedBookings(t *testing.T) {
	for _, status := range GetAllBookingStatuses() {
		for _, a := range AllBookingActions() {
			got := a.AllowedFrom(status, true)
			want := a == ActionRestore
			if got != want {
				t.Fatalf("deleted booking with status %s: action %s allowed=%v, want %v", status, a, got, want)
			}
		}
	}
}

func TestAllowedFrom_StatusTable(t *testing.T) {
	cases := []struct {
		status  BookingStatus
		allowed map[BookingAction]bool
	}{
		{BookingStatusPending, map[BookingAction]bool{
			ActionApprove: true, ActionReject: true, ActionCancel: true,
			ActionSoftDelete: true, ActionReschedule: true, ActionExpire: true,
		}},
		{BookingStatusApproved, map[BookingAction]bool{
			ActionCancel: true, ActionSoftDelete: true, ActionReschedule: true,
		}},
		{BookingStatusRejected, map[BookingAction]bool{ActionSoftDelete: true}},
		{BookingStatusCancelled, map[BookingAction]bool{ActionSoftDelete: true}},
		{BookingStatusExpired, map[BookingAction]bool{ActionSoftDelete: true}},
	}

	all := append(AllBookingActions(), ActionExpire)
	for _, tc := range cases {
		for _, a := range all {
			got := a.AllowedFrom(tc.status, false)
			if got != tc.allowed[a] {
				t.Fatalf("status %s: action %s allowed=%v, want %v", tc.status, a, got, tc.allowed[a])
			}
		}
	}
}

func TestAllowedActions_NeverListsExpire(t *testing.T) {
	for _, status := range GetAllBookingStatuses() {
		for _, deleted := range []bool{false, true} {
			for _, a := range AllowedActions(status, deleted) {
				if a == string(ActionExpire) {
					t.Fatalf("expire leaked into the action list for %s deleted=%v", status, deleted)
				}
			}
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	if !BookingStatusPending.CountsAgainstCapacity() || !BookingStatusApproved.CountsAgainstCapacity() {
		t.Fatalf("pending and approved must hold seats")
	}
	for _, s := range []BookingStatus{BookingStatusRejected, BookingStatusCancelled, BookingStatusExpired} {
		if s.CountsAgainstCapacity() {
			t.Fatalf("%s must not hold seats", s)
		}
		if !s.IsTerminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
	if BookingStatusPending.IsTerminal() || BookingStatusApproved.IsTerminal() {
		t.Fatalf("pending and approved are not terminal")
	}
	if BookingStatus("unknown").IsValid() {
		t.Fatalf("unknown status must be invalid")
	}
}
