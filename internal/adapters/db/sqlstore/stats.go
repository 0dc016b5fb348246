package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/minbot/dashboard/internal/domain"
	"gorm.io/gorm"
)

// StatsReader runs the aggregate moderation queries as plain SQL.
type StatsReader struct {
	db *sqlx.DB
}

func NewStatsReader(db *gorm.DB) (*StatsReader, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	driver := "sqlite3"
	if db.Dialector.Name() == "postgres" {
		driver = "pgx"
	}
	return &StatsReader{db: sqlx.NewDb(sqlDB, driver)}, nil
}

type moderatorActionCount struct {
	ModeratorID string `db:"moderator_id"`
	Action      string `db:"action"`
	Count       int64  `db:"count"`
}

func (s *StatsReader) ModerationStats(ctx context.Context, guildID string, since time.Time) (domain.ModerationStats, error) {
	query := s.db.Rebind(`SELECT moderator_id, action, COUNT(*) AS count
		FROM punishments
		WHERE guild_id = ? AND issued_at >= ?
		GROUP BY moderator_id, action`)

	rows := make([]moderatorActionCount, 0)
	if err := s.db.SelectContext(ctx, &rows, query, guildID, since.UTC()); err != nil {
		return domain.ModerationStats{}, fmt.Errorf("moderation stats for guild %s: %w", guildID, err)
	}

	stats := domain.ModerationStats{
		GuildID:     guildID,
		Since:       since.UTC(),
		ByModerator: make(map[string]int64),
		ByAction:    make(map[string]int64),
	}
	for _, row := range rows {
		stats.ByModerator[row.ModeratorID] += row.Count
		stats.ByAction[row.Action] += row.Count
		stats.Total += row.Count
	}
	return stats, nil
}
