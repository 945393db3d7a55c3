package core

import (
	"context"
	"log"
	"time"

	"reelify.io/movie-advisor/internal/catalog"
)

// Suggestion is the enriched record returned for profile-based suggestions,
// flattened for direct UI consumption.
type Suggestion struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Year           string   `json:"year"`
	Genres         []string `json:"genre"`
	Director       string   `json:"director"`
	Rating         float64  `json:"rating"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"image_url"`
	LocalImagePath string   `json:"local_image_path"`
}

// Recommender ties the retrieval pipeline together: query building, vector
// search, genre filtering, per-session exclusion and answer composition.
type Recommender struct {
	index    Searcher
	sessions *SessionManager
	topK     int
	timeout  time.Duration
}

func NewRecommender(index Searcher, sessions *SessionManager, topK int, timeout time.Duration) *Recommender {
	if topK <= 0 {
		topK = 5
	}
	return &Recommender{
		index:    index,
		sessions: sessions,
		topK:     topK,
		timeout:  timeout,
	}
}

func (r *Recommender) searchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// GetResponse answers a free-text query for one session: retrieve, filter by
// the genres implied by the query, drop everything the session has already
// seen, and compose the answer. Index failures degrade to an apology with no
// sources; they never surface as errors.
func (r *Recommender) GetResponse(ctx context.Context, sessionID, query string, profile *UserProfile) Response {
	ctx, cancel := r.searchContext(ctx)
	defer cancel()

	session := r.sessions.Get(sessionID)
	tags := ExtractGenres(query)
	excluded := session.ShownSnapshot()

	result, err := fetchCandidates(ctx, r.index, query, tags, excluded, r.topK)
	if err != nil {
		log.Printf("Search failed for session %s: %v", sessionID, err)
		return Response{Answer: apologyAnswer, SourceDocuments: []catalog.Document{}}
	}
	if result.Exhausted {
		log.Printf("Session %s: only %d of %d requested candidates survived filtering", sessionID, len(result.Documents), r.topK)
	}

	var preferredGenres []string
	if profile != nil {
		preferredGenres = profile.TopGenres(maxProfileGenres)
	}
	answer := composeAnswer(result.Documents, preferredGenres)

	ids := make([]int, 0, len(result.Documents))
	for _, doc := range result.Documents {
		ids = append(ids, doc.Meta.ID)
	}
	session.MarkShown(ids...)
	session.AppendExchange(query, answer)

	if result.Documents == nil {
		result.Documents = []catalog.Document{}
	}
	return Response{Answer: answer, SourceDocuments: result.Documents}
}

// SearchSimilarMovies returns up to k unique documents for a query. It is
// deliberately stateless: it neither consults nor populates any session's
// exclusion set, so repeated identical searches return identical results.
func (r *Recommender) SearchSimilarMovies(ctx context.Context, query string, k int) ([]catalog.Document, error) {
	ctx, cancel := r.searchContext(ctx)
	defer cancel()

	result, err := fetchCandidates(ctx, r.index, query, nil, make(map[int]bool), k)
	if err != nil {
		return nil, err
	}
	return result.Documents, nil
}

// GetProfileSuggestions turns a profile into a query, filters by the genres
// that query implies, skips what the session has already seen, and returns up
// to k enriched movie records. Accepted ids are marked shown.
func (r *Recommender) GetProfileSuggestions(ctx context.Context, sessionID string, profile UserProfile, k int) ([]Suggestion, error) {
	ctx, cancel := r.searchContext(ctx)
	defer cancel()

	session := r.sessions.Get(sessionID)
	query := BuildProfileQuery(profile)
	tags := ExtractGenres(query)
	excluded := session.ShownSnapshot()

	result, err := fetchCandidates(ctx, r.index, query, tags, excluded, k)
	if err != nil {
		return nil, err
	}
	if result.Exhausted {
		log.Printf("Session %s: profile suggestions exhausted at %d of %d", sessionID, len(result.Documents), k)
	}

	suggestions := make([]Suggestion, 0, len(result.Documents))
	ids := make([]int, 0, len(result.Documents))
	for _, doc := range result.Documents {
		suggestions = append(suggestions, Suggestion{
			ID:             doc.Meta.ID,
			Title:          doc.Meta.Title,
			Year:           doc.Meta.Year,
			Genres:         doc.Meta.Genres,
			Director:       doc.Meta.Director,
			Rating:         doc.Meta.Rating,
			Description:    doc.Content,
			ImageURL:       doc.Meta.ImageURL,
			LocalImagePath: doc.Meta.LocalImagePath,
		})
		ids = append(ids, doc.Meta.ID)
	}
	session.MarkShown(ids...)

	return suggestions, nil
}

// ResetConversation clears the session's shown set and history. Resetting
// twice is the same as resetting once.
func (r *Recommender) ResetConversation(sessionID string) {
	r.sessions.Get(sessionID).Reset()
}

// History returns the session's question/answer history, oldest first.
func (r *Recommender) History(sessionID string) []Exchange {
	return r.sessions.Get(sessionID).History()
}
