// Package archive mirrors the append-only post log into SQLite for stats
// and deep history queries. The JSON state file remains the system of
// record; the mirror is rebuildable and its failures are never fatal.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	feynman "github.com/ericmagro/feynman-bot"
	"github.com/ericmagro/feynman-bot/internal/archive/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Archive is a SQLite mirror of the post log. Safe for concurrent use.
type Archive struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Open opens or creates the archive database at path and runs migrations.
func Open(path string) (*Archive, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("archive: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open database: %w", err)
	}

	// WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: enable WAL mode: %w", err)
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: migrate schema: %w", err)
	}
	return a, nil
}

func (a *Archive) migrate() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(a.db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// RecordPost mirrors a post. Replaying an already-archived post is a no-op,
// so the caller may safely re-record after a partial failure.
func (a *Archive) RecordPost(post feynman.Post) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return errClosed
	}

	_, err := a.db.Exec(`
		INSERT OR IGNORE INTO posts (id, posted_at, mode, topic, wonder_type, summary, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		post.ID,
		post.Timestamp.UTC().Format(time.RFC3339),
		string(post.Mode),
		nullString(post.Topic),
		nullString(post.WonderType),
		post.Summary,
		post.Content,
	)
	if err != nil {
		return fmt.Errorf("archive: insert post: %w", err)
	}
	return nil
}

// Backfill mirrors every post in the slice, skipping those already present.
// Used to rebuild the archive from the state file.
func (a *Archive) Backfill(posts []feynman.Post) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, errClosed
	}

	added := 0
	for _, post := range posts {
		res, err := a.db.Exec(`
			INSERT OR IGNORE INTO posts (id, posted_at, mode, topic, wonder_type, summary, content)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			post.ID,
			post.Timestamp.UTC().Format(time.RFC3339),
			string(post.Mode),
			nullString(post.Topic),
			nullString(post.WonderType),
			post.Summary,
			post.Content,
		)
		if err != nil {
			return added, fmt.Errorf("archive: backfill post %s: %w", post.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}

// Stats aggregates the archived log: totals, per-mode counts, time span,
// and the most-posted topics.
func (a *Archive) Stats() (*feynman.Stats, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return nil, errClosed
	}

	stats := &feynman.Stats{ByMode: make(map[feynman.Mode]int)}

	rows, err := a.db.Query("SELECT mode, COUNT(*) FROM posts GROUP BY mode")
	if err != nil {
		return nil, fmt.Errorf("archive: count by mode: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var mode string
		var count int
		if err := rows.Scan(&mode, &count); err != nil {
			return nil, err
		}
		stats.ByMode[feynman.Mode(mode)] = count
		stats.TotalPosts += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var first, last sql.NullString
	err = a.db.QueryRow("SELECT MIN(posted_at), MAX(posted_at) FROM posts").Scan(&first, &last)
	if err != nil {
		return nil, fmt.Errorf("archive: time span: %w", err)
	}
	if first.Valid {
		stats.FirstPosted, _ = time.Parse(time.RFC3339, first.String)
	}
	if last.Valid {
		stats.LastPosted, _ = time.Parse(time.RFC3339, last.String)
	}

	topicRows, err := a.db.Query(`
		SELECT topic, COUNT(*) AS n FROM posts
		WHERE topic IS NOT NULL
		GROUP BY topic ORDER BY n DESC, topic ASC LIMIT 5
	`)
	if err != nil {
		return nil, fmt.Errorf("archive: top topics: %w", err)
	}
	defer topicRows.Close()
	for topicRows.Next() {
		var tc feynman.TopicCount
		if err := topicRows.Scan(&tc.Topic, &tc.Count); err != nil {
			return nil, err
		}
		stats.TopTopics = append(stats.TopTopics, tc)
	}
	return stats, topicRows.Err()
}

// ByMode returns archived posts of the given mode, most recent first,
// limited to n.
func (a *Archive) ByMode(mode feynman.Mode, n int) ([]feynman.Post, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return nil, errClosed
	}

	rows, err := a.db.Query(`
		SELECT id, posted_at, mode, topic, wonder_type, summary, content
		FROM posts WHERE mode = ? ORDER BY posted_at DESC LIMIT ?
	`, string(mode), n)
	if err != nil {
		return nil, fmt.Errorf("archive: query by mode: %w", err)
	}
	defer rows.Close()

	var posts []feynman.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Close closes the archive.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	return a.db.Close()
}

var errClosed = fmt.Errorf("archive is closed")

func scanPost(rows *sql.Rows) (feynman.Post, error) {
	var (
		post     feynman.Post
		postedAt string
		mode     string
		topic    sql.NullString
		wonder   sql.NullString
	)
	err := rows.Scan(&post.ID, &postedAt, &mode, &topic, &wonder, &post.Summary, &post.Content)
	if err != nil {
		return feynman.Post{}, err
	}
	post.Timestamp, _ = time.Parse(time.RFC3339, postedAt)
	post.Mode = feynman.Mode(mode)
	if topic.Valid {
		post.Topic = topic.String
	}
	if wonder.Valid {
		post.WonderType = wonder.String
	}
	return post, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
