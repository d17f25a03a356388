// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists papers and answers ranked lexical queries over
// them. The store pairs a plain SQLite table holding the stored fields with
// an FTS5 table holding the analyzed token streams, so every field is
// searched exactly as the analysis chain shaped it.
// Implements: prd005-index (R1-R5);
//
//	docs/ARCHITECTURE.md § Index Store.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-search/internal/analysis"
	"github.com/pdiddy/paper-search/internal/dedup"
	"github.com/pdiddy/paper-search/pkg/types"
)

// ErrNotFound reports a lookup for an id the index does not hold.
var ErrNotFound = errors.New("paper not found in index")

// searchFields are the FTS5 columns a free-text query runs against.
const searchFields = "{title summary authors}"

// Store is the lexical index. Writes are serialized through a single
// writer mutex so an existence check and the subsequent insert are observed
// as one atomic unit per id; readers run concurrently against a WAL
// snapshot that may trail the writer.
type Store struct {
	mu       sync.Mutex
	db       *sql.DB
	pipeline *analysis.Pipeline
}

// Open opens or creates the index database at cfg.IndexPath, creating
// parent directories and the schema as needed.
func Open(cfg types.IndexConfig, pipeline *analysis.Pipeline) (*Store, error) {
	if dir := filepath.Dir(cfg.IndexPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.IndexPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	s := &Store{db: db, pipeline: pipeline}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			summary TEXT,
			pdf_link TEXT,
			comment TEXT,
			updated TEXT,
			published TEXT,
			primary_category TEXT,
			primary_category_code TEXT,
			authors TEXT,
			domain_terms TEXT
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			paper_id UNINDEXED,
			title,
			summary,
			authors,
			comment,
			domain_terms
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Add indexes the paper with its extracted domain terms. It reports false
// without touching the index when the id is already present: the existence
// check and the insert run in one transaction under the writer lock, so the
// same id can never be indexed twice even under concurrent ingestion.
func (s *Store) Add(ctx context.Context, paper types.Paper, domainTerms []string) (bool, error) {
	authorsJSON, err := json.Marshal(paper.Authors)
	if err != nil {
		return false, fmt.Errorf("encoding authors: %w", err)
	}
	termsJSON, err := json.Marshal(domainTerms)
	if err != nil {
		return false, fmt.Errorf("encoding domain terms: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning index transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO papers
			(id, title, summary, pdf_link, comment, updated, published,
			 primary_category, primary_category_code, authors, domain_terms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		paper.ID, paper.Title, paper.Summary, paper.PDFLink, paper.Comment,
		paper.Updated, paper.Published, paper.PrimaryCategory,
		paper.PrimaryCategoryCode, string(authorsJSON), string(termsJSON),
	)
	if err != nil {
		return false, fmt.Errorf("inserting paper %s: %w", paper.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert of %s: %w", paper.ID, err)
	}
	if affected == 0 {
		// Already indexed; leave the existing entry untouched.
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers_fts (paper_id, title, summary, authors, comment, domain_terms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		paper.ID,
		tokenText(s.pipeline.Analyze(paper.Title, analysis.FieldTitle)),
		tokenText(s.pipeline.Analyze(paper.Summary, analysis.FieldGeneric)),
		tokenText(s.pipeline.Analyze(strings.Join(paper.Authors, ", "), analysis.FieldGeneric)),
		tokenText(s.pipeline.Analyze(paper.Comment, analysis.FieldGeneric)),
		strings.Join(domainTerms, " "),
	)
	if err != nil {
		return false, fmt.Errorf("indexing paper %s: %w", paper.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing paper %s: %w", paper.ID, err)
	}
	return true, nil
}

// Exists reports whether the id is already indexed.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM papers WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking paper %s: %w", id, err)
	}
	return true, nil
}

// ByID returns the stored paper for id, or ErrNotFound.
func (s *Store) ByID(ctx context.Context, id string) (types.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, summary, pdf_link, comment, updated, published,
			primary_category, primary_category_code, authors
		 FROM papers WHERE id = ?`, id)

	paper, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Paper{}, fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Paper{}, fmt.Errorf("loading paper %s: %w", id, err)
	}
	return paper, nil
}

// AllSummaries returns id, title, and summary for every indexed paper, in
// insertion-stable id order. The duplicate detector scans these.
func (s *Store) AllSummaries(ctx context.Context) ([]dedup.IndexedSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, summary FROM papers ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("scanning summaries: %w", err)
	}
	defer rows.Close()

	var docs []dedup.IndexedSummary
	for rows.Next() {
		var doc dedup.IndexedSummary
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Summary); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Search runs a ranked multi-field query over title, summary, and authors.
// The query text passes through the same analysis chain as indexed text
// (minus n-gram expansion, whose terms are already in the index), and any
// matching token qualifies a document; ranking is FTS5's bm25.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	tokens := s.pipeline.BaseTokens(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = ftsQuote(tok)
	}
	match := searchFields + " : (" + strings.Join(quoted, " OR ") + ")"
	return s.searchMatch(ctx, match, limit)
}

// SearchPhrase runs a positional-proximity query: all query tokens must
// appear within distance term positions of each other, in any order.
func (s *Store) SearchPhrase(ctx context.Context, query string, distance, limit int) ([]types.Paper, error) {
	tokens := s.pipeline.BaseTokens(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = ftsQuote(tok)
	}

	var match string
	if len(quoted) == 1 {
		match = searchFields + " : " + quoted[0]
	} else {
		match = fmt.Sprintf("%s : NEAR(%s, %d)", searchFields, strings.Join(quoted, " "), distance)
	}
	return s.searchMatch(ctx, match, limit)
}

func (s *Store) searchMatch(ctx context.Context, match string, limit int) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.summary, p.pdf_link, p.comment, p.updated,
			p.published, p.primary_category, p.primary_category_code, p.authors
		 FROM papers_fts
		 JOIN papers p ON p.id = papers_fts.paper_id
		 WHERE papers_fts MATCH ?
		 ORDER BY papers_fts.rank
		 LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		paper, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		papers = append(papers, paper)
	}
	return papers, rows.Err()
}

// TitleSuggestions returns up to limit stored titles whose analyzed title
// tokens start with prefix, best match first. The edge n-grams indexed for
// the title field make prefixes of 2-5 characters match directly.
func (s *Store) TitleSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, nil
	}

	match := "title : " + ftsQuote(prefix) + "*"
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT p.title
		 FROM papers_fts
		 JOIN papers p ON p.id = papers_fts.paper_id
		 WHERE papers_fts MATCH ?
		 ORDER BY papers_fts.rank
		 LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching title suggestions: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(row scanner) (types.Paper, error) {
	var (
		paper       types.Paper
		authorsJSON string
	)
	err := row.Scan(&paper.ID, &paper.Title, &paper.Summary, &paper.PDFLink,
		&paper.Comment, &paper.Updated, &paper.Published,
		&paper.PrimaryCategory, &paper.PrimaryCategoryCode, &authorsJSON)
	if err != nil {
		return types.Paper{}, err
	}
	if authorsJSON != "" {
		if err := json.Unmarshal([]byte(authorsJSON), &paper.Authors); err != nil {
			return types.Paper{}, fmt.Errorf("decoding authors: %w", err)
		}
	}
	return paper, nil
}

// tokenText joins analyzed tokens into the text stored in an FTS5 column.
func tokenText(tokens []string) string {
	return strings.Join(tokens, " ")
}

// ftsQuote wraps a token as an FTS5 string literal.
func ftsQuote(tok string) string {
	return `"` + strings.ReplaceAll(tok, `"`, `""`) + `"`
}
