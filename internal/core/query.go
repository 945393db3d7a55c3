package core

import (
	"sort"
	"strings"
)

const (
	maxProfileGenres    = 2
	maxProfileMoods     = 2
	maxDescriptionRunes = 100
)

// GenreScore is one entry of a user's genre preferences. Preferences are an
// ordered slice rather than a map so that ties between equal scores resolve
// by the order the user listed them.
type GenreScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// UserProfile captures a user's stated preferences. It is read-only input to
// the recommender; nothing in this package mutates it.
type UserProfile struct {
	Genres      []GenreScore `json:"genres"`
	Directors   string       `json:"directors,omitempty"`
	Period      string       `json:"period,omitempty"`
	Moods       []string     `json:"mood,omitempty"`
	Description string       `json:"description,omitempty"`
}

// TopGenres returns the n highest-scoring genre names, stable on ties.
func (p UserProfile) TopGenres(n int) []string {
	ranked := make([]GenreScore, len(p.Genres))
	copy(ranked, p.Genres)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, ranked[i].Name)
	}
	return names
}

// BuildProfileQuery turns a profile into a single search query: top-2 genres,
// up to 2 moods, then the first 100 characters of the free-text description,
// space-separated. An empty profile yields an empty string, which the vector
// store treats as an ordinary (if unhelpful) query.
func BuildProfileQuery(profile UserProfile) string {
	var parts []string

	parts = append(parts, profile.TopGenres(maxProfileGenres)...)

	moods := profile.Moods
	if len(moods) > maxProfileMoods {
		moods = moods[:maxProfileMoods]
	}
	for _, mood := range moods {
		if mood != "" {
			parts = append(parts, mood)
		}
	}

	if profile.Description != "" {
		desc := []rune(profile.Description)
		if len(desc) > maxDescriptionRunes {
			desc = desc[:maxDescriptionRunes]
		}
		parts = append(parts, string(desc))
	}

	return strings.Join(parts, " ")
}
