package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"launchscanner/internal/domain"
	"launchscanner/internal/ports"
)

// PostgresRepository mirrors annotated launches into Postgres so the store
// can be queried without touching the JSON file.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.LaunchRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// UpsertLaunches writes every record, keyed by startup name.
func (r *PostgresRepository) UpsertLaunches(ctx context.Context, launches []domain.Launch) error {
	if r.db == nil || len(launches) == 0 {
		return nil
	}

	for _, launch := range launches {
		if err := r.upsert(ctx, launch); err != nil {
			return fmt.Errorf("upsert %s: %w", launch.Startup, err)
		}
	}

	return nil
}

func (r *PostgresRepository) upsert(ctx context.Context, launch domain.Launch) error {
	var usesStats sql.NullBool
	if launch.UsesStats != nil {
		usesStats = sql.NullBool{Bool: *launch.UsesStats, Valid: true}
	}

	var sentiment sql.NullString
	var compound sql.NullFloat64
	if launch.Sentiment != nil {
		sentiment = sql.NullString{String: launch.Sentiment.Sentiment, Valid: true}
		compound = sql.NullFloat64{Float64: launch.Sentiment.Compound, Valid: true}
	}

	query, args, err := r.builder.
		Insert("launches").
		Columns("startup", "rank", "url", "revenue", "maker", "headline",
			"language", "phrase_type", "focus", "uses_stats", "sentiment", "compound").
		Values(launch.Startup, launch.Rank, launch.URL, launch.Revenue, launch.Maker, launch.Headline,
			launch.Language, launch.PhraseType, launch.Focus, usesStats, sentiment, compound).
		Suffix(`ON CONFLICT (startup) DO UPDATE SET
			rank = EXCLUDED.rank,
			url = EXCLUDED.url,
			revenue = EXCLUDED.revenue,
			maker = EXCLUDED.maker,
			headline = EXCLUDED.headline,
			language = EXCLUDED.language,
			phrase_type = EXCLUDED.phrase_type,
			focus = EXCLUDED.focus,
			uses_stats = EXCLUDED.uses_stats,
			sentiment = EXCLUDED.sentiment,
			compound = EXCLUDED.compound,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	return nil
}
