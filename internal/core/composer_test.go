package core

import (
	"strings"
	"testing"

	"reelify.io/movie-advisor/internal/catalog"
)

func TestComposeAnswerEmpty(t *testing.T) {
	got := composeAnswer(nil, nil)
	if got != noMatchesAnswer {
		t.Errorf("composeAnswer(nil) = %q, want the no-matches message", got)
	}
}

func TestComposeAnswerList(t *testing.T) {
	docs := []catalog.Document{
		{
			Content: "Title: Inception\nDescription: A thief who steals corporate secrets.\nRating: 8.8/10\n",
			Meta:    catalog.Metadata{ID: 6, Title: "Inception", Year: "2010", Director: "Christopher Nolan", Rating: 8.8},
		},
		{
			Content: "Title: The Matrix\nDescription: A computer hacker learns the truth.\n",
			Meta:    catalog.Metadata{ID: 7, Title: "The Matrix", Year: "1999", Director: "Lana Wachowski, Lilly Wachowski", Rating: 8.7},
		},
	}

	got := composeAnswer(docs, nil)

	for _, want := range []string{
		"1. **Inception** (2010) - Note: 8.8/10",
		"2. **The Matrix** (1999) - Note: 8.7/10",
		"Réalisé par Christopher Nolan. A thief who steals corporate secrets.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("answer missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Rating: 8.8/10") {
		t.Error("excerpt leaked past the description line")
	}
}

func TestComposeAnswerProfilePreamble(t *testing.T) {
	docs := []catalog.Document{
		{Content: "Description: d\n", Meta: catalog.Metadata{ID: 1, Title: "X", Year: "2000", Rating: 7}},
	}

	got := composeAnswer(docs, []string{"action", "comédie"})
	if !strings.Contains(got, "Basé sur votre profil (vous aimez : action et comédie)") {
		t.Errorf("missing profile preamble:\n%s", got)
	}
}

func TestDescriptionExcerpt(t *testing.T) {
	t.Run("extracts the description line", func(t *testing.T) {
		content := "Title: X\nDescription: A short synopsis.\nRating: 7.0/10\n"
		if got := descriptionExcerpt(content); got != "A short synopsis." {
			t.Errorf("descriptionExcerpt() = %q", got)
		}
	})

	t.Run("falls back to a 500-character prefix", func(t *testing.T) {
		content := strings.Repeat("x", 600)
		got := descriptionExcerpt(content)
		if len([]rune(got)) != 500 {
			t.Errorf("fallback excerpt has %d runes, want 500", len([]rune(got)))
		}
	})

	t.Run("marker at end of content without newline", func(t *testing.T) {
		if got := descriptionExcerpt("Description: trailing"); got != "trailing" {
			t.Errorf("descriptionExcerpt() = %q, want %q", got, "trailing")
		}
	})
}
