package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ForexPulse/internal/model"
)

// PostgresSink appends every alert record to the forex_history table.
type PostgresSink struct {
	db *sqlx.DB
}

// NewPostgresSink connects to PostgreSQL, verifies the connection, and
// ensures the history table exists.
func NewPostgresSink(dsn string) (*PostgresSink, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS forex_history (
		id         BIGSERIAL PRIMARY KEY,
		timestamp  TIMESTAMPTZ NOT NULL,
		pair       TEXT NOT NULL,
		open       DOUBLE PRECISION,
		high       DOUBLE PRECISION,
		low        DOUBLE PRECISION,
		close      DOUBLE PRECISION,
		ema10      DOUBLE PRECISION,
		ema50      DOUBLE PRECISION,
		rsi        DOUBLE PRECISION,
		atr        DOUBLE PRECISION,
		support    DOUBLE PRECISION,
		resistance DOUBLE PRECISION,
		trend      TEXT,
		crossover  TEXT,
		sentiment  TEXT,
		news       TEXT
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure forex_history: %w", err)
	}

	log.Println("[INFO] postgres sink connected")
	return &PostgresSink{db: db}, nil
}

func (p *PostgresSink) Name() string { return "postgres" }

// Deliver inserts one row. Undefined indicators become SQL NULL, never zero.
func (p *PostgresSink) Deliver(ctx context.Context, rec *model.AlertRecord) error {
	ind := rec.Indicators
	_, err := p.db.ExecContext(ctx, `INSERT INTO forex_history
		(timestamp, pair, open, high, low, close,
		 ema10, ema50, rsi, atr, support, resistance,
		 trend, crossover, sentiment, news)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		rec.Timestamp.UTC(), rec.Pair, rec.Open, rec.High, rec.Low, rec.Close,
		ind.EMA10, ind.EMA50, nullable(ind.RSI), nullable(ind.ATR),
		nullable(ind.Support), nullable(ind.Resistance),
		string(rec.Signal.Trend), string(rec.Signal.Crossover),
		rec.Sentiment, rec.News,
	)
	if err != nil {
		return fmt.Errorf("insert forex_history: %w", err)
	}
	return nil
}

func (p *PostgresSink) Close() error {
	return p.db.Close()
}

func nullable(f model.Float) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f.Value, Valid: f.Valid}
}
