package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"reelify.io/movie-advisor/internal/catalog"
)

// Embedder turns text into a vector. The production implementation lives in
// internal/embed; tests substitute a deterministic fake.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// indexedDocument is a document plus the embedding it was stored with.
type indexedDocument struct {
	doc       catalog.Document
	embedding []float32
}

// Store persists documents and their embeddings in SQLite and answers
// similarity searches from an in-memory copy of the corpus. Re-opening the
// same database path reproduces the same searchable corpus.
type Store struct {
	db       *sql.DB
	embedder Embedder
	seed     func() []catalog.Document

	mu   sync.RWMutex
	docs []indexedDocument
}

// NewStore opens (or creates) the database at dataSourceName. seed provides
// the documents to ingest when the store is empty on first use; it may be nil.
func NewStore(dataSourceName string, embedder Embedder, seed func() []catalog.Document) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db, embedder: embedder, seed: seed}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS documents (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        movie_id INTEGER NOT NULL,
        content TEXT NOT NULL,
        title TEXT NOT NULL,
        year TEXT,
        genres_json TEXT,
        director TEXT,
        rating REAL,
        image_url TEXT,
        local_image_path TEXT,
        embedding_json TEXT
    );

    CREATE INDEX IF NOT EXISTS idx_documents_movie_id ON documents (movie_id);
    `
	_, err := s.db.Exec(schema)
	return err
}

// ensureLoaded lazily populates the in-memory corpus: first from the database,
// then, if the database itself is empty, by ingesting the seed catalog. This
// way a fresh deployment recovers on the first request instead of failing
// every request after a missed ingestion step.
func (s *Store) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := len(s.docs) > 0
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.docs) > 0 {
		return nil
	}

	docs, err := s.loadAll()
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	if len(docs) == 0 && s.seed != nil {
		log.Println("Vector store is empty, ingesting seed catalog...")
		n, err := s.ingestLocked(ctx, s.seed())
		if err != nil {
			return fmt.Errorf("failed to seed vector store: %w", err)
		}
		log.Printf("Seeded vector store with %d documents", n)
		docs, err = s.loadAll()
		if err != nil {
			return fmt.Errorf("failed to reload documents after seeding: %w", err)
		}
	}

	s.docs = docs
	log.Printf("Vector store loaded with %d documents", len(s.docs))
	return nil
}

// loadAll reads the whole corpus from SQLite. Undecodable genre or embedding
// columns are logged and degraded (nil slice), never fatal for the row.
func (s *Store) loadAll() ([]indexedDocument, error) {
	rows, err := s.db.Query(`SELECT movie_id, content, title, year, genres_json, director,
        rating, image_url, local_image_path, embedding_json FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []indexedDocument
	for rows.Next() {
		var (
			idx        indexedDocument
			genresJSON sql.NullString
			embedJSON  sql.NullString
			imageURL   sql.NullString
			localPath  sql.NullString
			year       sql.NullString
			director   sql.NullString
			rating     sql.NullFloat64
		)
		meta := &idx.doc.Meta
		if err := rows.Scan(&meta.ID, &idx.doc.Content, &meta.Title, &year, &genresJSON,
			&director, &rating, &imageURL, &localPath, &embedJSON); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		meta.Year = year.String
		meta.Director = director.String
		meta.Rating = rating.Float64
		meta.ImageURL = imageURL.String
		meta.LocalImagePath = localPath.String

		if genresJSON.Valid && genresJSON.String != "" {
			if err := json.Unmarshal([]byte(genresJSON.String), &meta.Genres); err != nil {
				log.Printf("Warning: failed to decode genres for movie %d (%q): %v. Treating as unknown genre.",
					meta.ID, genresJSON.String, err)
				meta.Genres = nil
			}
		}

		if embedJSON.Valid && embedJSON.String != "" {
			if err := json.Unmarshal([]byte(embedJSON.String), &idx.embedding); err != nil {
				log.Printf("Warning: failed to decode embedding for movie %d: %v. Document will not be searchable.",
					meta.ID, err)
				idx.embedding = nil
			}
		} else {
			log.Printf("Warning: empty embedding for movie %d. Document will not be searchable.", meta.ID)
		}

		docs = append(docs, idx)
	}
	return docs, rows.Err()
}

func (s *Store) insert(doc catalog.Document, embedding []float32) error {
	genresJSON, err := json.Marshal(doc.Meta.Genres)
	if err != nil {
		return fmt.Errorf("failed to marshal genres: %w", err)
	}
	embedJSON, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	stmt, err := s.db.Prepare(`INSERT INTO documents
        (movie_id, content, title, year, genres_json, director, rating, image_url, local_image_path, embedding_json)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(doc.Meta.ID, doc.Content, doc.Meta.Title, doc.Meta.Year, string(genresJSON),
		doc.Meta.Director, doc.Meta.Rating, doc.Meta.ImageURL, doc.Meta.LocalImagePath, string(embedJSON))
	if err != nil {
		return fmt.Errorf("failed to execute document insert: %w", err)
	}
	return nil
}

func (s *Store) clear() error {
	if _, err := s.db.Exec("DELETE FROM documents"); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	_, _ = s.db.Exec("DELETE FROM sqlite_sequence WHERE name='documents'")
	return nil
}

// Ingest replaces the stored corpus with the given documents, embedding each
// one. Documents whose embedding fails are skipped with a warning.
func (s *Store) Ingest(ctx context.Context, docs []catalog.Document) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.ingestLocked(ctx, docs)
	if err != nil {
		return n, err
	}
	loaded, err := s.loadAll()
	if err != nil {
		return n, fmt.Errorf("failed to reload documents after ingestion: %w", err)
	}
	s.docs = loaded
	return n, nil
}

func (s *Store) ingestLocked(ctx context.Context, docs []catalog.Document) (int, error) {
	if err := s.clear(); err != nil {
		return 0, fmt.Errorf("failed to clear existing documents: %w", err)
	}

	ticker := time.NewTicker(40 * time.Millisecond) // delay to stay under the embedding API rate limit
	defer ticker.Stop()

	count := 0
	for i, doc := range docs {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		case <-ticker.C:
		}

		embedding, err := s.embedder.Embed(ctx, doc.Content)
		if err != nil {
			log.Printf("Failed to embed document %d (%q): %v. Skipping.", i+1, doc.Meta.Title, err)
			continue
		}
		if err := s.insert(doc, embedding); err != nil {
			log.Printf("Failed to store document %d (%q): %v. Skipping.", i+1, doc.Meta.Title, err)
			continue
		}
		count++
		if count%10 == 0 || count == len(docs) {
			log.Printf("Ingested %d/%d documents...", count, len(docs))
		}
	}
	return count, nil
}

// Count returns the number of indexed documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

type scoredDocument struct {
	doc        catalog.Document
	similarity float32
}

// Search returns the k most similar documents to the query, best first. An
// empty query is embedded like any other text. Documents without a usable
// embedding are skipped.
func (s *Store) Search(ctx context.Context, query string, k int) ([]catalog.Document, error) {
	if k <= 0 {
		return nil, nil
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]scoredDocument, 0, len(s.docs))
	for _, idx := range s.docs {
		if len(idx.embedding) == 0 {
			continue
		}
		similarity, err := CosineSimilarity(queryEmbedding, idx.embedding)
		if err != nil {
			log.Printf("Error scoring movie %d against query: %v. Skipping.", idx.doc.Meta.ID, err)
			continue
		}
		scored = append(scored, scoredDocument{doc: idx.doc, similarity: similarity})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	if k > len(scored) {
		k = len(scored)
	}
	results := make([]catalog.Document, 0, k)
	for i := 0; i < k; i++ {
		results = append(results, scored[i].doc)
	}
	return results, nil
}
