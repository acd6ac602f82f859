// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
	"github.com/elroyic/Podcast-Generator-sub001/internal/model"
	_ "modernc.org/sqlite"
)

var schema = `
CREATE TABLE IF NOT EXISTS feeds (
	id TEXT PRIMARY KEY,
	source_url TEXT NOT NULL,
	kind TEXT NOT NULL,
	active INTEGER NOT NULL,
	last_polled_at TEXT
);
CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	feed_id TEXT NOT NULL,
	title TEXT NOT NULL,
	url TEXT NOT NULL,
	content TEXT NOT NULL,
	published_at TEXT,
	fingerprint TEXT NOT NULL,
	review_tier TEXT NOT NULL,
	review_state TEXT NOT NULL,
	tags_json TEXT NOT NULL,
	summary TEXT NOT NULL,
	confidence REAL NOT NULL,
	collection_id TEXT NOT NULL,
	processed_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_articles_feed_unassigned ON articles(feed_id, collection_id);
CREATE TABLE IF NOT EXISTS groups (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	presenter_ids_json TEXT NOT NULL,
	writer_id TEXT NOT NULL,
	feed_ids_json TEXT NOT NULL,
	tag_filter_json TEXT NOT NULL,
	min_articles INTEGER NOT NULL,
	cadence_bucket TEXT NOT NULL,
	last_episode_at TEXT
);
CREATE TABLE IF NOT EXISTS collections (
	id TEXT PRIMARY KEY,
	group_id TEXT NOT NULL,
	status TEXT NOT NULL,
	article_ids_json TEXT NOT NULL,
	created_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_collections_group_status ON collections(group_id, status);
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	collection_id TEXT NOT NULL,
	group_id TEXT NOT NULL,
	article_ids_json TEXT NOT NULL,
	taken_at TEXT
);
CREATE TABLE IF NOT EXISTS episodes (
	id TEXT PRIMARY KEY,
	group_id TEXT NOT NULL,
	collection_snapshot_id TEXT NOT NULL,
	status TEXT NOT NULL,
	script TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	tags_json TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL,
	failure_reason TEXT NOT NULL,
	degraded INTEGER NOT NULL,
	created_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_episodes_status ON episodes(status);
CREATE TABLE IF NOT EXISTS audio_files (
	id TEXT PRIMARY KEY,
	episode_id TEXT NOT NULL,
	url TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL,
	byte_size INTEGER NOT NULL,
	format TEXT NOT NULL
);
`

// SQLiteStore is the durable, single-node Store backend.
type SQLiteStore struct {
	db       *sql.DB
	updateMu sync.Mutex // serializes UpdateArticle's read-modify-write
}

// OpenSQLiteStore opens (creating if absent) the sqlite database at path
// and applies the schema. path may be ":memory:" for ephemeral use.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store path required")
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite: serialize writers per process
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func timeStr(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func marshalIDs(ids []ids.ID) string {
	b, _ := json.Marshal(ids)
	return string(b)
}

func unmarshalIDs(s string) []ids.ID {
	var out []ids.ID
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

func marshalStrings(ss []string) string {
	b, _ := json.Marshal(ss)
	return string(b)
}

func unmarshalStrings(s string) []string {
	var out []string
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

func (s *SQLiteStore) PutFeed(ctx context.Context, f *model.Feed) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feeds (id, source_url, kind, active, last_polled_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET source_url=excluded.source_url, kind=excluded.kind,
			active=excluded.active, last_polled_at=excluded.last_polled_at
	`, f.ID.String(), f.SourceURL, string(f.Kind), boolToInt(f.Active), timeStr(f.LastPolledAt))
	if err != nil {
		return fmt.Errorf("put feed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetFeed(ctx context.Context, id ids.ID) (*model.Feed, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, source_url, kind, active, last_polled_at FROM feeds WHERE id = ?`, id.String())
	var f model.Feed
	var idStr, lastPolled string
	var active int
	if err := row.Scan(&idStr, &f.SourceURL, &f.Kind, &active, &lastPolled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get feed: %w", err)
	}
	parsed, err := ids.Parse(idStr)
	if err != nil {
		return nil, err
	}
	f.ID = parsed
	f.Active = active != 0
	f.LastPolledAt = parseTime(lastPolled)
	return &f, nil
}

func (s *SQLiteStore) ListActiveFeeds(ctx context.Context) ([]*model.Feed, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, source_url, kind, active, last_polled_at FROM feeds WHERE active = 1`)
	if err != nil {
		return nil, fmt.Errorf("list active feeds: %w", err)
	}
	defer rows.Close()

	var out []*model.Feed
	for rows.Next() {
		var f model.Feed
		var idStr, lastPolled string
		var active int
		if err := rows.Scan(&idStr, &f.SourceURL, &f.Kind, &active, &lastPolled); err != nil {
			return nil, err
		}
		parsed, err := ids.Parse(idStr)
		if err != nil {
			return nil, err
		}
		f.ID = parsed
		f.Active = active != 0
		f.LastPolledAt = parseTime(lastPolled)
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PutArticle(ctx context.Context, a *model.Article) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (id, feed_id, title, url, content, published_at, fingerprint,
			review_tier, review_state, tags_json, summary, confidence, collection_id, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET feed_id=excluded.feed_id, title=excluded.title, url=excluded.url,
			content=excluded.content, published_at=excluded.published_at, fingerprint=excluded.fingerprint,
			review_tier=excluded.review_tier, review_state=excluded.review_state, tags_json=excluded.tags_json,
			summary=excluded.summary, confidence=excluded.confidence, collection_id=excluded.collection_id,
			processed_at=excluded.processed_at
	`, a.ID.String(), a.FeedID.String(), a.Title, a.URL, a.Content, timeStr(a.PublishedAt), a.Fingerprint,
		string(a.ReviewTier), string(a.ReviewState), marshalStrings(a.Tags), a.Summary, a.Confidence,
		a.CollectionID.String(), timeStr(a.ProcessedAt))
	if err != nil {
		return fmt.Errorf("put article: %w", err)
	}
	return nil
}

func scanArticle(row interface{ Scan(...any) error }) (*model.Article, error) {
	var a model.Article
	var idStr, feedIDStr, collectionIDStr, published, processed, tagsJSON string
	if err := row.Scan(&idStr, &feedIDStr, &a.Title, &a.URL, &a.Content, &published, &a.Fingerprint,
		&a.ReviewTier, &a.ReviewState, &tagsJSON, &a.Summary, &a.Confidence, &collectionIDStr, &processed); err != nil {
		return nil, err
	}
	id, err := ids.Parse(idStr)
	if err != nil {
		return nil, err
	}
	a.ID = id
	if feedIDStr != "" {
		feedID, err := ids.Parse(feedIDStr)
		if err != nil {
			return nil, err
		}
		a.FeedID = feedID
	}
	if collectionIDStr != "" {
		collectionID, err := ids.Parse(collectionIDStr)
		if err != nil {
			return nil, err
		}
		a.CollectionID = collectionID
	}
	a.PublishedAt = parseTime(published)
	a.ProcessedAt = parseTime(processed)
	a.Tags = unmarshalStrings(tagsJSON)
	return &a, nil
}

const articleColumns = `id, feed_id, title, url, content, published_at, fingerprint, review_tier, review_state, tags_json, summary, confidence, collection_id, processed_at`

func (s *SQLiteStore) GetArticle(ctx context.Context, id ids.ID) (*model.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id.String())
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// UpdateArticle holds updateMu across the read, fn and the write, so
// concurrent UpdateArticle calls within this process do not interleave. It
// is not transactional: writers in other processes are not excluded.
func (s *SQLiteStore) UpdateArticle(ctx context.Context, id ids.ID, fn func(*model.Article) error) (*model.Article, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()
	a, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	if err := s.PutArticle(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SQLiteStore) ListUnassigned(ctx context.Context, feedIDs []ids.ID) ([]*model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE collection_id = ''`
	args := []any{}
	if len(feedIDs) > 0 {
		query += ` AND feed_id IN (`
		for i, id := range feedIDs {
			if i > 0 {
				query += `, `
			}
			query += `?`
			args = append(args, id.String())
		}
		query += `)`
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list unassigned: %w", err)
	}
	defer rows.Close()

	var out []*model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PutGroup(ctx context.Context, g *model.Group) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO groups (id, name, presenter_ids_json, writer_id, feed_ids_json, tag_filter_json,
			min_articles, cadence_bucket, last_episode_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, presenter_ids_json=excluded.presenter_ids_json,
			writer_id=excluded.writer_id, feed_ids_json=excluded.feed_ids_json, tag_filter_json=excluded.tag_filter_json,
			min_articles=excluded.min_articles, cadence_bucket=excluded.cadence_bucket,
			last_episode_at=excluded.last_episode_at
	`, g.ID.String(), g.Name, marshalStrings(g.PresenterIDs), g.WriterID, marshalIDs(g.FeedIDs),
		marshalStrings(g.TagFilter), g.MinArticles, string(g.CadenceBucket), timeStr(g.LastEpisodeAt))
	if err != nil {
		return fmt.Errorf("put group: %w", err)
	}
	return nil
}

func scanGroup(row interface{ Scan(...any) error }) (*model.Group, error) {
	var g model.Group
	var idStr, presentersJSON, feedsJSON, tagsJSON, lastEpisode string
	var cadence string
	if err := row.Scan(&idStr, &g.Name, &presentersJSON, &g.WriterID, &feedsJSON, &tagsJSON,
		&g.MinArticles, &cadence, &lastEpisode); err != nil {
		return nil, err
	}
	id, err := ids.Parse(idStr)
	if err != nil {
		return nil, err
	}
	g.ID = id
	g.CadenceBucket = model.CadenceBucket(cadence)
	g.PresenterIDs = unmarshalStrings(presentersJSON)
	g.FeedIDs = unmarshalIDs(feedsJSON)
	g.TagFilter = unmarshalStrings(tagsJSON)
	g.LastEpisodeAt = parseTime(lastEpisode)
	return &g, nil
}

const groupColumns = `id, name, presenter_ids_json, writer_id, feed_ids_json, tag_filter_json, min_articles, cadence_bucket, last_episode_at`

func (s *SQLiteStore) GetGroup(ctx context.Context, id ids.ID) (*model.Group, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = ?`, id.String())
	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*model.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+groupColumns+` FROM groups`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var out []*model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PutCollection(ctx context.Context, c *model.Collection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, group_id, status, article_ids_json, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET status=excluded.status, article_ids_json=excluded.article_ids_json
	`, c.ID.String(), c.GroupID.String(), string(c.Status), marshalIDs(c.ArticleIDs), timeStr(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("put collection: %w", err)
	}
	return nil
}

func scanCollection(row interface{ Scan(...any) error }) (*model.Collection, error) {
	var c model.Collection
	var idStr, groupIDStr, articlesJSON, created string
	if err := row.Scan(&idStr, &groupIDStr, &c.Status, &articlesJSON, &created); err != nil {
		return nil, err
	}
	id, err := ids.Parse(idStr)
	if err != nil {
		return nil, err
	}
	c.ID = id
	groupID, err := ids.Parse(groupIDStr)
	if err != nil {
		return nil, err
	}
	c.GroupID = groupID
	c.ArticleIDs = unmarshalIDs(articlesJSON)
	c.CreatedAt = parseTime(created)
	return &c, nil
}

const collectionColumns = `id, group_id, status, article_ids_json, created_at`

func (s *SQLiteStore) GetCollection(ctx context.Context, id ids.ID) (*model.Collection, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+collectionColumns+` FROM collections WHERE id = ?`, id.String())
	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) GetOpenCollection(ctx context.Context, groupID ids.ID) (*model.Collection, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+collectionColumns+` FROM collections WHERE group_id = ? AND status IN (?, ?) LIMIT 1`,
		groupID.String(), string(model.CollectionBuilding), string(model.CollectionReady))
	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get open collection: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) GetBuildingCollection(ctx context.Context, groupID ids.ID) (*model.Collection, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+collectionColumns+` FROM collections WHERE group_id = ? AND status = ? LIMIT 1`,
		groupID.String(), string(model.CollectionBuilding))
	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get building collection: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) GetReadyCollection(ctx context.Context, groupID ids.ID) (*model.Collection, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+collectionColumns+` FROM collections WHERE group_id = ? AND status = ? LIMIT 1`,
		groupID.String(), string(model.CollectionReady))
	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ready collection: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListReady(ctx context.Context) ([]*model.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+collectionColumns+` FROM collections WHERE status = ?`, string(model.CollectionReady))
	if err != nil {
		return nil, fmt.Errorf("list ready collections: %w", err)
	}
	defer rows.Close()

	var out []*model.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PutSnapshot(ctx context.Context, snap *model.Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, collection_id, group_id, article_ids_json, taken_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, snap.ID.String(), snap.CollectionID.String(), snap.GroupID.String(), marshalIDs(snap.ArticleIDs), timeStr(snap.TakenAt))
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, id ids.ID) (*model.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, collection_id, group_id, article_ids_json, taken_at FROM snapshots WHERE id = ?`, id.String())
	var snap model.Snapshot
	var idStr, collectionIDStr, groupIDStr, articlesJSON, taken string
	if err := row.Scan(&idStr, &collectionIDStr, &groupIDStr, &articlesJSON, &taken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	id2, err := ids.Parse(idStr)
	if err != nil {
		return nil, err
	}
	snap.ID = id2
	collectionID, err := ids.Parse(collectionIDStr)
	if err != nil {
		return nil, err
	}
	snap.CollectionID = collectionID
	groupID, err := ids.Parse(groupIDStr)
	if err != nil {
		return nil, err
	}
	snap.GroupID = groupID
	snap.ArticleIDs = unmarshalIDs(articlesJSON)
	snap.TakenAt = parseTime(taken)
	return &snap, nil
}

func (s *SQLiteStore) PutEpisode(ctx context.Context, e *model.Episode) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO episodes (id, group_id, collection_snapshot_id, status, script, title, description,
			tags_json, duration_seconds, failure_reason, degraded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET collection_snapshot_id=excluded.collection_snapshot_id,
			status=excluded.status, script=excluded.script, title=excluded.title,
			description=excluded.description, tags_json=excluded.tags_json, duration_seconds=excluded.duration_seconds,
			failure_reason=excluded.failure_reason, degraded=excluded.degraded
	`, e.ID.String(), e.GroupID.String(), e.CollectionSnapshotID.String(), string(e.Status), e.Script, e.Title,
		e.Description, marshalStrings(e.Tags), e.DurationSeconds, e.FailureReason, boolToInt(e.Degraded), timeStr(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("put episode: %w", err)
	}
	return nil
}

func scanEpisode(row interface{ Scan(...any) error }) (*model.Episode, error) {
	var e model.Episode
	var idStr, groupIDStr, snapshotIDStr, tagsJSON, created string
	var degraded int
	if err := row.Scan(&idStr, &groupIDStr, &snapshotIDStr, &e.Status, &e.Script, &e.Title, &e.Description,
		&tagsJSON, &e.DurationSeconds, &e.FailureReason, &degraded, &created); err != nil {
		return nil, err
	}
	id, err := ids.Parse(idStr)
	if err != nil {
		return nil, err
	}
	e.ID = id
	groupID, err := ids.Parse(groupIDStr)
	if err != nil {
		return nil, err
	}
	e.GroupID = groupID
	if snapshotIDStr != "" {
		snapID, err := ids.Parse(snapshotIDStr)
		if err != nil {
			return nil, err
		}
		e.CollectionSnapshotID = snapID
	}
	e.Tags = unmarshalStrings(tagsJSON)
	e.Degraded = degraded != 0
	e.CreatedAt = parseTime(created)
	return &e, nil
}

const episodeColumns = `id, group_id, collection_snapshot_id, status, script, title, description, tags_json, duration_seconds, failure_reason, degraded, created_at`

func (s *SQLiteStore) GetEpisode(ctx context.Context, id ids.ID) (*model.Episode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE id = ?`, id.String())
	e, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) ListGenerating(ctx context.Context) ([]*model.Episode, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE status = ?`, string(model.EpisodeGenerating))
	if err != nil {
		return nil, fmt.Errorf("list generating episodes: %w", err)
	}
	defer rows.Close()

	var out []*model.Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PutAudioFile(ctx context.Context, a *model.AudioFile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audio_files (id, episode_id, url, duration_seconds, byte_size, format)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET url=excluded.url, duration_seconds=excluded.duration_seconds,
			byte_size=excluded.byte_size, format=excluded.format
	`, a.ID.String(), a.EpisodeID.String(), a.URL, a.DurationSeconds, a.ByteSize, string(a.Format))
	if err != nil {
		return fmt.Errorf("put audio file: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
