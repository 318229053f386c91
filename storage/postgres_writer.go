package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"tiktok-scraper/models"
)

// PostgresWriter persists normalized snapshots to PostgreSQL. Snapshots are
// append-only: each run adds a new row per target so counters can be tracked
// over time.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS account_snapshots (
			id          SERIAL PRIMARY KEY,
			username    VARCHAR(100) NOT NULL,
			followers   BIGINT       NOT NULL DEFAULT 0,
			following   BIGINT       NOT NULL DEFAULT 0,
			posts       BIGINT       NOT NULL DEFAULT 0,
			likes_total BIGINT       NOT NULL DEFAULT 0,
			verified    BOOLEAN      NOT NULL DEFAULT FALSE,
			source      VARCHAR(10)  NOT NULL DEFAULT '',
			scraped_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			UNIQUE (username, scraped_at)
		);

		CREATE TABLE IF NOT EXISTS post_snapshots (
			id              SERIAL PRIMARY KEY,
			post_url        TEXT         NOT NULL,
			account         VARCHAR(100) NOT NULL DEFAULT '',
			views           BIGINT       NOT NULL DEFAULT 0,
			likes           BIGINT       NOT NULL DEFAULT 0,
			comments        BIGINT       NOT NULL DEFAULT 0,
			shares          BIGINT       NOT NULL DEFAULT 0,
			bookmarks       BIGINT       NOT NULL DEFAULT 0,
			engagement_rate NUMERIC(6,2) NOT NULL DEFAULT 0,
			caption         TEXT         NOT NULL DEFAULT '',
			slide_text      TEXT         NOT NULL DEFAULT '',
			is_repost       BOOLEAN      NOT NULL DEFAULT FALSE,
			source          VARCHAR(10)  NOT NULL DEFAULT '',
			scraped_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			UNIQUE (post_url, scraped_at)
		);

		CREATE INDEX IF NOT EXISTS idx_account_snapshots_username ON account_snapshots(username);
		CREATE INDEX IF NOT EXISTS idx_post_snapshots_url         ON post_snapshots(post_url);
		CREATE INDEX IF NOT EXISTS idx_post_snapshots_account     ON post_snapshots(account);
		CREATE INDEX IF NOT EXISTS idx_post_snapshots_scraped_at  ON post_snapshots(scraped_at);
	`)
	return err
}

// WriteAccounts batch-inserts account snapshots.
func (pw *PostgresWriter) WriteAccounts(accounts []*models.AccountSnapshot) error {
	const batchSize = 50
	for i := 0; i < len(accounts); i += batchSize {
		end := i + batchSize
		if end > len(accounts) {
			end = len(accounts)
		}
		if err := pw.insertAccountBatch(accounts[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertAccountBatch(batch []*models.AccountSnapshot) error {
	if len(batch) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*8)

	for idx, a := range batch {
		base := idx * 8
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		valueArgs = append(valueArgs,
			a.Username, a.Followers, a.Following, a.Posts, a.LikesTotal,
			a.Verified, a.Source, a.ScrapedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO account_snapshots
			(username, followers, following, posts, likes_total, verified, source, scraped_at)
		VALUES %s
		ON CONFLICT (username, scraped_at) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// WritePosts batch-inserts post snapshots.
func (pw *PostgresWriter) WritePosts(posts []*models.PostSnapshot) error {
	const batchSize = 50
	for i := 0; i < len(posts); i += batchSize {
		end := i + batchSize
		if end > len(posts) {
			end = len(posts)
		}
		if err := pw.insertPostBatch(posts[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertPostBatch(batch []*models.PostSnapshot) error {
	if len(batch) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*13)

	for idx, p := range batch {
		base := idx * 13
		placeholders := make([]string, 13)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			p.PostURL, p.Account, p.Views, p.Likes, p.Comments, p.Shares,
			p.Bookmarks, p.EngagementRate, p.Caption, p.SlideText,
			p.IsRepost, p.Source, p.ScrapedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO post_snapshots
			(post_url, account, views, likes, comments, shares, bookmarks,
			 engagement_rate, caption, slide_text, is_repost, source, scraped_at)
		VALUES %s
		ON CONFLICT (post_url, scraped_at) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// FetchLatestPosts returns the most recent snapshot per post URL — used by
// the insight service.
func (pw *PostgresWriter) FetchLatestPosts() ([]*models.PostSnapshot, error) {
	rows, err := pw.db.Query(`
		SELECT DISTINCT ON (post_url)
			post_url, account, views, likes, comments, shares, bookmarks,
			engagement_rate, caption, slide_text, is_repost, source, scraped_at
		FROM post_snapshots
		ORDER BY post_url, scraped_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch latest posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.PostSnapshot
	for rows.Next() {
		p := &models.PostSnapshot{PostMetrics: &models.PostMetrics{}}
		if err := rows.Scan(
			&p.PostURL, &p.Account, &p.Views, &p.Likes, &p.Comments, &p.Shares,
			&p.Bookmarks, &p.EngagementRate, &p.Caption, &p.SlideText,
			&p.IsRepost, &p.Source, &p.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Close closes the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
