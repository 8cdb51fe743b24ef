package session

import (
	"testing"
	"time"
)

func testSession() *Session {
	return &Session{
		Title:     "Morning Yoga",
		Date:      time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "11:30",
		Capacity:  10,
	}
}

func TestStartsAtEndsAt(t *testing.T) {
	s := testSession()
	if got := s.StartsAt(); !got.Equal(time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected StartsAt %v", got)
	}
	if got := s.EndsAt(); !got.Equal(time.Date(2026, 3, 12, 11, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected EndsAt %v", got)
	}
}

func TestIsPast(t *testing.T) {
	s := testSession()
	if s.IsPast(time.Date(2026, 3, 12, 11, 29, 0, 0, time.UTC)) {
		t.Fatalf("session still running must not be past")
	}
	if !s.IsPast(time.Date(2026, 3, 12, 11, 30, 0, 0, time.UTC)) {
		t.Fatalf("session is past the moment it ends")
	}
}

func TestValidate(t *testing.T) {
	if err := testSession().Validate(); err != nil {
		t.Fatalf("expected valid session, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Session)
	}{
		{"missing title", func(s *Session) { s.Title = "" }},
		{"zero capacity", func(s *Session) { s.Capacity = 0 }},
		{"negative capacity", func(s *Session) { s.Capacity = -3 }},
		{"bad start time", func(s *Session) { s.StartTime = "25:00" }},
		{"bad end time", func(s *Session) { s.EndTime = "noon" }},
		{"end before start", func(s *Session) { s.StartTime = "11:30"; s.EndTime = "10:00" }},
	}
	for _, tc := range cases {
		s := testSession()
		tc.mutate(s)
		if err := s.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
