package catalog

import (
	"fmt"
	"strings"
)

// Metadata is the structured record attached to each indexed document. Genres
// are kept as a typed slice so the retrieval path never has to re-parse them;
// a nil slice means the genre information was missing or undecodable.
type Metadata struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Year           string   `json:"year"`
	Genres         []string `json:"genre"`
	Director       string   `json:"director"`
	Rating         float64  `json:"rating"`
	ImageURL       string   `json:"image_url,omitempty"`
	LocalImagePath string   `json:"local_image_path,omitempty"`
}

// Document is the unit stored in the vector index: the rendered text that gets
// embedded plus the metadata of the movie it came from.
type Document struct {
	Content string   `json:"content"`
	Meta    Metadata `json:"metadata"`
}

// RenderDocument converts a movie into its indexable text form. The field
// order is fixed; the composer relies on the "Description:" line.
func RenderDocument(m Movie) Document {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", m.Title)
	fmt.Fprintf(&b, "Year: %s\n", m.Year)
	fmt.Fprintf(&b, "Genre: %s\n", strings.Join(m.Genres, ", "))
	fmt.Fprintf(&b, "Director: %s\n", m.Director)
	fmt.Fprintf(&b, "Description: %s\n", m.Description)
	fmt.Fprintf(&b, "Rating: %.1f/10\n", m.Rating)
	fmt.Fprintf(&b, "Actors: %s\n", strings.Join(m.Actors, ", "))

	return Document{
		Content: b.String(),
		Meta: Metadata{
			ID:             m.ID,
			Title:          m.Title,
			Year:           m.Year,
			Genres:         m.Genres,
			Director:       m.Director,
			Rating:         m.Rating,
			ImageURL:       m.ImageURL,
			LocalImagePath: m.LocalImagePath,
		},
	}
}

// RenderDocuments renders the whole catalog for ingestion.
func RenderDocuments(movies []Movie) []Document {
	docs := make([]Document, 0, len(movies))
	for _, m := range movies {
		docs = append(docs, RenderDocument(m))
	}
	return docs
}
