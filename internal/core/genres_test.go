package core

import (
	"testing"
)

func TestExtractGenres(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"english keyword", "I want an action movie tonight", []string{"action"}},
		{"french accented keyword", "un film d'épouvante bien effrayant", []string{"horror"}},
		{"bilingual sci-fi variants", "une bonne science-fiction dans l'espace", []string{"sci-fi"}},
		{"substring match inside token", "du pur scifi", []string{"sci-fi"}},
		{"multiple genres", "une comédie romantique", []string{"comedy", "romance"}},
		{"no match", "quelque chose de bien", nil},
		{"empty query", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractGenres(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractGenres(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ExtractGenres(%q) = %v, want %v", tt.query, got, tt.want)
					break
				}
			}
		})
	}
}

func TestGenreMatches(t *testing.T) {
	tests := []struct {
		name      string
		tags      []string
		docGenres []string
		want      bool
	}{
		{"case-insensitive overlap", []string{"action"}, []string{"Action", "Crime"}, true},
		{"no overlap", []string{"action"}, []string{"Romance"}, false},
		{"tag substring of genre", []string{"sci-fi"}, []string{"Sci-Fi"}, true},
		{"genre substring of tag", []string{"comédie musicale"}, []string{"Musicale"}, true},
		{"empty doc genres", []string{"action"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := genreMatches(tt.tags, tt.docGenres); got != tt.want {
				t.Errorf("genreMatches(%v, %v) = %v, want %v", tt.tags, tt.docGenres, got, tt.want)
			}
		})
	}
}
