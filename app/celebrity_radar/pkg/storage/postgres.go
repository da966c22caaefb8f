package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/config"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

const schema = `CREATE TABLE IF NOT EXISTS celebrity_data (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	cleaned_paragraph TEXT,
	source TEXT,
	sentiment DOUBLE PRECISION,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// Storage 基于 database/sql 连接池的存储层，可被多个 worker 共享
type Storage struct {
	db *sql.DB
}

// NewStorage 打开连接池并检查连通性
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetimeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if cfg.InitSchema {
		if err := s.initSchema(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return s, nil
}

// NewWithDB 使用已有连接池创建 Storage
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close 关闭连接池
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute query %s: %w", schema, err)
	}
	return nil
}

// InsertMention 在事务中写入一条记录并返回 id
func (s *Storage) InsertMention(ctx context.Context, rec model.MentionRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	source := sql.NullString{String: rec.Source, Valid: rec.Source != ""}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO celebrity_data (name, cleaned_paragraph, source, sentiment)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		rec.Name, sanitize(rec.CleanedParagraph), source, rec.Sentiment).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert mention: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return id, nil
}

// QueryRecent 按创建时间倒序返回最近的记录
func (s *Storage) QueryRecent(ctx context.Context, limit int) ([]model.StoredMention, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sentiment, created_at, cleaned_paragraph, source
		FROM celebrity_data
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent: %w", err)
	}
	defer rows.Close()

	out := []model.StoredMention{}
	for rows.Next() {
		var (
			m         model.StoredMention
			paragraph sql.NullString
			source    sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Sentiment, &m.CreatedAt, &paragraph, &source); err != nil {
			return nil, fmt.Errorf("failed to scan recent: %w", err)
		}
		m.CleanedParagraph = paragraph.String
		m.Source = source.String
		out = append(out, m)
	}
	return out, rows.Err()
}

// LatestRankings 每位名人取最新一条，按情感分数倒序
func (s *Storage) LatestRankings(ctx context.Context, limit int) ([]model.Ranking, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH ranked AS (
			SELECT name, sentiment, created_at, cleaned_paragraph, source,
				ROW_NUMBER() OVER (PARTITION BY name ORDER BY created_at DESC) AS rn
			FROM celebrity_data
		)
		SELECT name, sentiment, created_at, cleaned_paragraph, source
		FROM ranked
		WHERE rn = 1
		ORDER BY sentiment DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	out := []model.Ranking{}
	for rows.Next() {
		var (
			r         model.Ranking
			paragraph sql.NullString
			source    sql.NullString
		)
		if err := rows.Scan(&r.Name, &r.Sentiment, &r.CreatedAt, &paragraph, &source); err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		r.Summary = paragraph.String
		r.Source = source.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Trend 返回某位名人最近 days 天的情感变化，按时间正序
func (s *Storage) Trend(ctx context.Context, name string, days int) ([]model.TrendPoint, error) {
	since := time.Now().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at, sentiment, cleaned_paragraph
		FROM celebrity_data
		WHERE name = $1 AND created_at >= $2
		ORDER BY created_at ASC`, name, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend: %w", err)
	}
	defer rows.Close()

	out := []model.TrendPoint{}
	for rows.Next() {
		var (
			p         model.TrendPoint
			paragraph sql.NullString
		)
		if err := rows.Scan(&p.CreatedAt, &p.Sentiment, &paragraph); err != nil {
			return nil, fmt.Errorf("failed to scan trend: %w", err)
		}
		p.Summary = paragraph.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// Statistics 总记录数、名人数、平均分，以及按最新记录统计的情感分布
func (s *Storage) Statistics(ctx context.Context) (*model.Statistics, error) {
	var (
		stats model.Statistics
		avg   sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT name), AVG(sentiment)
		FROM celebrity_data`).Scan(&stats.TotalRecords, &stats.UniqueCelebrities, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	stats.AvgSentiment = avg.Float64

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN sentiment >= 0.3 THEN 1 END),
			COUNT(CASE WHEN sentiment > -0.3 AND sentiment < 0.3 THEN 1 END),
			COUNT(CASE WHEN sentiment <= -0.3 THEN 1 END)
		FROM (
			SELECT DISTINCT ON (name) name, sentiment
			FROM celebrity_data
			ORDER BY name, created_at DESC
		) latest`).Scan(&stats.Positive, &stats.Neutral, &stats.Negative)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution: %w", err)
	}
	return &stats, nil
}

// sanitize 移除无效 UTF-8 与 NULL 字节，PostgreSQL 文本字段不接受 NULL 字节
func sanitize(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.ReplaceAll(s, "\x00", "")
}
