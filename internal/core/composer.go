package core

import (
	"fmt"
	"strings"

	"reelify.io/movie-advisor/internal/catalog"
)

// Response is what the recommender hands back to callers: the rendered answer
// plus the documents it was built from, in ranking order.
type Response struct {
	Answer          string             `json:"answer"`
	SourceDocuments []catalog.Document `json:"source_documents"`
}

const (
	noMatchesAnswer = "Je n'ai trouvé aucun film correspondant à votre demande. " +
		"Essayez de reformuler votre recherche ou d'élargir vos critères."

	apologyAnswer = "Désolé, une erreur s'est produite lors de la recherche. Veuillez réessayer."

	maxExcerptRunes = 500
)

// answerVariant selects which template renders the answer. The renderer is
// rule-based text assembly over structured movie data, nothing more.
type answerVariant int

const (
	genericTemplate answerVariant = iota
	documentDrivenTemplate
)

func variantFor(docs []catalog.Document) answerVariant {
	if len(docs) == 0 {
		return genericTemplate
	}
	return documentDrivenTemplate
}

// composeAnswer renders the final answer text. preferredGenres, when present,
// adds a short profile preamble ("vous aimez : action et comédie").
func composeAnswer(docs []catalog.Document, preferredGenres []string) string {
	switch variantFor(docs) {
	case documentDrivenTemplate:
		return composeMovieList(docs, preferredGenres)
	default:
		return noMatchesAnswer
	}
}

func composeMovieList(docs []catalog.Document, preferredGenres []string) string {
	var b strings.Builder

	if len(preferredGenres) > 0 {
		fmt.Fprintf(&b, "Basé sur votre profil (vous aimez : %s), ", strings.Join(preferredGenres, " et "))
		b.WriteString("voici les films que je vous recommande :\n\n")
	} else {
		b.WriteString("Voici les films que je vous recommande :\n\n")
	}

	for i, doc := range docs {
		fmt.Fprintf(&b, "%d. **%s** (%s) - Note: %.1f/10\n", i+1, doc.Meta.Title, doc.Meta.Year, doc.Meta.Rating)
		entry := descriptionExcerpt(doc.Content)
		if doc.Meta.Director != "" {
			fmt.Fprintf(&b, "   Réalisé par %s. %s\n", doc.Meta.Director, entry)
		} else {
			fmt.Fprintf(&b, "   %s\n", entry)
		}
		if i < len(docs)-1 {
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// descriptionExcerpt pulls the description line out of a rendered document:
// the text after the "Description:" marker up to the next line break, or the
// first 500 characters of the content when the marker is absent.
func descriptionExcerpt(content string) string {
	const marker = "Description:"
	if idx := strings.Index(content, marker); idx >= 0 {
		rest := content[idx+len(marker):]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		return strings.TrimSpace(rest)
	}

	runes := []rune(content)
	if len(runes) > maxExcerptRunes {
		runes = runes[:maxExcerptRunes]
	}
	return strings.TrimSpace(string(runes))
}
