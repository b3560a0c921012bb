package games

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validInput() CreateInput {
	return CreateInput{
		OrganizationID: "org",
		CreatorID:      "creator",
		Date:           "2024-07-01",
		Time:           "18:00",
		Venue:          " Riverside ",
		Opponent:       "United",
	}
}

func TestNewGameStartsPending(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.FixedZone("x", 3600))
	g, err := NewGame(validInput(), "id-1", now)
	if err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
	if g.Status != StatusPending {
		t.Fatalf("expected pending, got %s", g.Status)
	}
	if g.Venue != "Riverside" {
		t.Fatalf("expected trimmed venue, got %q", g.Venue)
	}
	if g.CreatedAt.Location() != time.UTC || !g.CreatedAt.Equal(g.UpdatedAt) {
		t.Fatalf("expected UTC timestamps, got %s / %s", g.CreatedAt, g.UpdatedAt)
	}
}

func TestNewGameValidation(t *testing.T) {
	cases := map[string]func(*CreateInput){
		"missing org":     func(in *CreateInput) { in.OrganizationID = "" },
		"missing creator": func(in *CreateInput) { in.CreatorID = " " },
		"bad date":        func(in *CreateInput) { in.Date = "July 1st" },
		"bad time":        func(in *CreateInput) { in.Time = "6pm" },
		"missing venue":   func(in *CreateInput) { in.Venue = "" },
		"missing rival":   func(in *CreateInput) { in.Opponent = "" },
		"long org":        func(in *CreateInput) { in.OrganizationID = strings.Repeat("o", maxFieldLen+1) },
		"long city":       func(in *CreateInput) { in.City = strings.Repeat("c", maxFieldLen+1) },
		"long notes":      func(in *CreateInput) { in.Notes = strings.Repeat("n", maxNotesLen+1) },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		if _, err := NewGame(in, "id", time.Now()); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if _, err := NewGame(validInput(), "", time.Now()); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected missing id to be rejected, got %v", err)
	}
}

func TestNormalizeScore(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"2-1":     "2-1",
		" 10 - 0": "10-0",
		"007-00":  "7-0",
	}
	for in, want := range cases {
		got, err := NormalizeScore(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
	for _, bad := range []string{"2:1", "1000-1", "-1-2", "two"} {
		if _, err := NormalizeScore(bad); !errors.Is(err, ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", bad, err)
		}
	}
}
