package catalog

import (
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-json"
)

// Movie is one catalog entry. IDs are unique within the catalog; Genres may be
// empty but never nil after loading.
type Movie struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Year           string   `json:"year"`
	Genres         []string `json:"genre"`
	Director       string   `json:"director"`
	Description    string   `json:"description"`
	Rating         float64  `json:"rating"`
	Actors         []string `json:"actors"`
	ImageURL       string   `json:"image_url,omitempty"`
	LocalImagePath string   `json:"local_image_path,omitempty"`
}

// LoadMovies reads the catalog from the JSON file at path, falling back to the
// built-in sample catalog when the file is missing or unreadable.
func LoadMovies(path string) []Movie {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Catalog file %s not available (%v), using built-in sample movies", path, err)
		return SampleMovies()
	}

	var movies []rawMovie
	if err := json.Unmarshal(data, &movies); err != nil {
		log.Printf("Warning: could not parse catalog file %s: %v. Using built-in sample movies.", path, err)
		return SampleMovies()
	}

	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.normalize())
	}
	log.Printf("Loaded %d movies from %s", len(out), path)
	return out
}

// rawMovie tolerates the year being either a JSON number or a string, which
// varies across catalog exports.
type rawMovie struct {
	ID             int             `json:"id"`
	Title          string          `json:"title"`
	Year           json.RawMessage `json:"year"`
	Genres         []string        `json:"genre"`
	Director       string          `json:"director"`
	Description    string          `json:"description"`
	Rating         float64         `json:"rating"`
	Actors         []string        `json:"actors"`
	ImageURL       string          `json:"image_url"`
	LocalImagePath string          `json:"local_image_path"`
}

func (r rawMovie) normalize() Movie {
	m := Movie{
		ID:             r.ID,
		Title:          r.Title,
		Year:           "N/A",
		Genres:         r.Genres,
		Director:       r.Director,
		Description:    r.Description,
		Rating:         r.Rating,
		Actors:         r.Actors,
		ImageURL:       r.ImageURL,
		LocalImagePath: r.LocalImagePath,
	}
	if m.Genres == nil {
		m.Genres = []string{}
	}
	if len(r.Year) > 0 {
		var asString string
		if err := json.Unmarshal(r.Year, &asString); err == nil {
			m.Year = asString
		} else {
			var asNumber int
			if err := json.Unmarshal(r.Year, &asNumber); err == nil {
				m.Year = fmt.Sprintf("%d", asNumber)
			}
		}
	}
	return m
}

// SampleMovies is the fallback catalog used when no TMDB export is present.
func SampleMovies() []Movie {
	return []Movie{
		{
			ID: 1, Title: "The Shawshank Redemption", Year: "1994",
			Genres: []string{"Drama"}, Director: "Frank Darabont",
			Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
			Rating:      9.3, Actors: []string{"Tim Robbins", "Morgan Freeman"},
			ImageURL: "https://image.tmdb.org/t/p/w500/q6y0Go1tsGEsmtFryDOJo3dEmqu.jpg",
		},
		{
			ID: 2, Title: "The Godfather", Year: "1972",
			Genres: []string{"Crime", "Drama"}, Director: "Francis Ford Coppola",
			Description: "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
			Rating:      9.2, Actors: []string{"Marlon Brando", "Al Pacino"},
			ImageURL: "https://image.tmdb.org/t/p/w500/3bhkrj58Vtu7enYsRolD1fZdja1.jpg",
		},
		{
			ID: 3, Title: "The Dark Knight", Year: "2008",
			Genres: []string{"Action", "Crime", "Drama"}, Director: "Christopher Nolan",
			Description: "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests.",
			Rating:      9.0, Actors: []string{"Christian Bale", "Heath Ledger"},
			ImageURL: "https://image.tmdb.org/t/p/w500/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
		},
		{
			ID: 4, Title: "Pulp Fiction", Year: "1994",
			Genres: []string{"Crime", "Drama"}, Director: "Quentin Tarantino",
			Description: "The lives of two mob hitmen, a boxer, a gangster and his wife intertwine in four tales of violence and redemption.",
			Rating:      8.9, Actors: []string{"John Travolta", "Uma Thurman", "Samuel L. Jackson"},
			ImageURL: "https://image.tmdb.org/t/p/w500/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg",
		},
		{
			ID: 5, Title: "Forrest Gump", Year: "1994",
			Genres: []string{"Drama", "Romance"}, Director: "Robert Zemeckis",
			Description: "The presidencies of Kennedy and Johnson unfold through the perspective of an Alabama man with an IQ of 75.",
			Rating:      8.8, Actors: []string{"Tom Hanks", "Robin Wright"},
			ImageURL: "https://image.tmdb.org/t/p/w500/arw2vcBveWOVZr6pxd9XTd1TdQa.jpg",
		},
		{
			ID: 6, Title: "Inception", Year: "2010",
			Genres: []string{"Action", "Sci-Fi", "Thriller"}, Director: "Christopher Nolan",
			Description: "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea.",
			Rating:      8.8, Actors: []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt"},
			ImageURL: "https://image.tmdb.org/t/p/w500/9gk7adHYeDvHkCSEqAvQNLV5Uge.jpg",
		},
		{
			ID: 7, Title: "The Matrix", Year: "1999",
			Genres: []string{"Action", "Sci-Fi"}, Director: "Lana Wachowski, Lilly Wachowski",
			Description: "A computer hacker learns about the true nature of reality and his role in the war against its controllers.",
			Rating:      8.7, Actors: []string{"Keanu Reeves", "Laurence Fishburne"},
			ImageURL: "https://image.tmdb.org/t/p/w500/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg",
		},
		{
			ID: 8, Title: "Interstellar", Year: "2014",
			Genres: []string{"Adventure", "Drama", "Sci-Fi"}, Director: "Christopher Nolan",
			Description: "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
			Rating:      8.6, Actors: []string{"Matthew McConaughey", "Anne Hathaway"},
			ImageURL: "https://image.tmdb.org/t/p/w500/gEU2QniE6E77NI6lCU6MxlNBvIx.jpg",
		},
		{
			ID: 9, Title: "Parasite", Year: "2019",
			Genres: []string{"Comedy", "Drama", "Thriller"}, Director: "Bong Joon Ho",
			Description: "Greed and class discrimination threaten the newly formed symbiotic relationship between the wealthy Park family and the destitute Kim clan.",
			Rating:      8.6, Actors: []string{"Song Kang-ho", "Lee Sun-kyun"},
			ImageURL: "https://image.tmdb.org/t/p/w500/7IiTTgloJzvGI1TAYymCfbfl3vT.jpg",
		},
		{
			ID: 10, Title: "The Prestige", Year: "2006",
			Genres: []string{"Drama", "Mystery", "Thriller"}, Director: "Christopher Nolan",
			Description: "After a tragic accident, two stage magicians engage in a battle to create the ultimate illusion.",
			Rating:      8.5, Actors: []string{"Christian Bale", "Hugh Jackman"},
			ImageURL: "https://image.tmdb.org/t/p/w500/tRNlZbgNCNOpLpbPEz5L8G8A0JN.jpg",
		},
		{
			ID: 11, Title: "Gladiator", Year: "2000",
			Genres: []string{"Action", "Adventure", "Drama"}, Director: "Ridley Scott",
			Description: "A former Roman General sets out to exact vengeance against the corrupt emperor who murdered his family.",
			Rating:      8.5, Actors: []string{"Russell Crowe", "Joaquin Phoenix"},
			ImageURL: "https://image.tmdb.org/t/p/w500/ty8TGRuvJLPUmAR1H1nRIsgwvim.jpg",
		},
		{
			ID: 12, Title: "The Departed", Year: "2006",
			Genres: []string{"Crime", "Drama", "Thriller"}, Director: "Martin Scorsese",
			Description: "An undercover cop and a mole in the police attempt to identify each other while infiltrating an Irish gang.",
			Rating:      8.5, Actors: []string{"Leonardo DiCaprio", "Matt Damon", "Jack Nicholson"},
			ImageURL: "https://image.tmdb.org/t/p/w500/nT97ifVT2J1yMQmeq20Qblg61T.jpg",
		},
	}
}
