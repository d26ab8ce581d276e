package database

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"flood-watch/internal/models"
)

var broadcastColumns = []string{"id", "message", "district", "sent_at"}

func insertBroadcastQuery(b models.Broadcast) squirrel.InsertBuilder {
	return builder().Insert(tableBroadcasts).
		Columns(broadcastColumns...).
		Values(b.ID, b.Message, b.District, b.SentAt)
}

func listBroadcastsQuery(limit uint64) squirrel.SelectBuilder {
	return builder().Select(broadcastColumns...).
		From(tableBroadcasts).
		OrderBy("sent_at DESC").
		Limit(limit)
}

// InsertBroadcast records a sent broadcast in the communications log.
func (db *DB) InsertBroadcast(ctx context.Context, b models.Broadcast) error {
	if err := db.exec(ctx, insertBroadcastQuery(b)); err != nil {
		return fmt.Errorf("insert broadcast: %w", err)
	}
	return nil
}

// ListBroadcasts returns the most recent broadcasts, newest first.
func (db *DB) ListBroadcasts(ctx context.Context, limit int) ([]models.Broadcast, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.query(ctx, listBroadcastsQuery(uint64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list broadcasts: %w", err)
	}
	defer rows.Close()

	out := []models.Broadcast{}
	for rows.Next() {
		var b models.Broadcast
		if err := rows.Scan(&b.ID, &b.Message, &b.District, &b.SentAt); err != nil {
			return nil, fmt.Errorf("scan broadcast: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
