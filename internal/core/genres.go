package core

import "strings"

// genreKeywords maps each canonical genre tag to the surface forms that may
// appear in a user query, in French and English, accented and not. Canonical
// tags are picked to substring-match the catalog's genre vocabulary (e.g.
// "sci-fi" against a stored "Sci-Fi").
type genreKeywords struct {
	tag      string
	keywords []string
}

var genreTable = []genreKeywords{
	{"action", []string{"action", "combat", "super-héros", "super-heros", "superhero", "explosion"}},
	{"adventure", []string{"adventure", "aventure", "épopée", "epopee", "quête", "quete"}},
	{"animation", []string{"animation", "animé", "anime", "dessin animé", "dessin anime", "cartoon", "pixar", "disney", "ghibli"}},
	{"comedy", []string{"comedy", "comédie", "comedie", "drôle", "drole", "rire", "humour", "funny"}},
	{"crime", []string{"crime", "mafia", "gangster", "policier", "criminel"}},
	{"documentary", []string{"documentary", "documentaire"}},
	{"drama", []string{"drama", "drame", "dramatique", "émotion", "emotion", "touchant"}},
	{"family", []string{"family", "famille", "familial", "enfants", "children"}},
	{"fantasy", []string{"fantasy", "fantastique", "magie", "magic", "sorcier", "wizard"}},
	{"history", []string{"history", "histoire", "historique", "historical"}},
	{"horror", []string{"horror", "horreur", "épouvante", "epouvante", "peur", "effrayant", "terreur", "scary"}},
	{"music", []string{"music", "musical", "musique", "comédie musicale", "comedie musicale"}},
	{"mystery", []string{"mystery", "mystère", "mystere", "enquête", "enquete", "détective", "detective"}},
	{"romance", []string{"romance", "romantique", "romantic", "amour", "love"}},
	{"sci-fi", []string{"science-fiction", "science fiction", "sci-fi", "scifi", "sf", "futur", "espace", "spatial", "space", "robot"}},
	{"thriller", []string{"thriller", "suspense", "haletant", "tendu"}},
	{"war", []string{"war", "guerre", "militaire", "military"}},
	{"western", []string{"western", "cowboy", "far west"}},
}

// ExtractGenres maps a free-text query to the canonical genre tags whose
// keywords appear in it. Matching is plain case-insensitive substring search,
// no word boundaries: recall is deliberately favored over precision. An empty
// result means no genre restriction.
func ExtractGenres(query string) []string {
	lowered := strings.ToLower(query)
	if lowered == "" {
		return nil
	}

	var tags []string
	for _, entry := range genreTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				tags = append(tags, entry.tag)
				break
			}
		}
	}
	return tags
}

// genreMatches reports whether any requested tag overlaps any of the
// document's genres, as a case-insensitive substring in either direction
// ("sci-fi" matches "Sci-Fi", "science-fiction" matches "fiction").
func genreMatches(tags []string, docGenres []string) bool {
	for _, tag := range tags {
		lt := strings.ToLower(tag)
		for _, genre := range docGenres {
			lg := strings.ToLower(genre)
			if strings.Contains(lg, lt) || strings.Contains(lt, lg) {
				return true
			}
		}
	}
	return false
}
