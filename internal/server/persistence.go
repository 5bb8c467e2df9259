package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trivia-jack/internal/db"
	"trivia-jack/internal/game"
	"trivia-jack/internal/publish"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBRecorder mirrors engine events into Postgres. It only writes; the
// engine never reads these rows back.
type DBRecorder struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ game.Recorder = (*DBRecorder)(nil)

func NewDBRecorder(conn *gorm.DB, log *zap.Logger) *DBRecorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &DBRecorder{db: conn, log: log}
}

func (r *DBRecorder) Record(ctx context.Context, ev game.Event) error {
	if r.db == nil {
		return nil
	}
	if ev.Type == game.EventPlayerAdded && ev.Player != nil {
		if err := r.persistPlayer(ctx, *ev.Player); err != nil {
			return err
		}
	}
	event, err := eventRecord(ev)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ev.Game != nil && publish.BoardChanged(ev) {
			if err := persistGame(tx, *ev.Game); err != nil {
				return err
			}
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("persist event %s: %w", ev.Type, err)
		}
		return nil
	})
}

func (r *DBRecorder) persistPlayer(ctx context.Context, player game.Player) error {
	record := db.Player{ID: player.ID, Name: player.Name}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Debug("player already persisted", zap.String("player_id", player.ID))
			return nil
		}
		return fmt.Errorf("persist player: %w", err)
	}
	return nil
}

func persistGame(tx *gorm.DB, g game.Game) error {
	record := gameRecord(g)
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"state", "current_round", "active_player_id", "active_until", "updated_at",
		}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("persist game: %w", err)
	}
	rows := boardRecords(g)
	if len(rows) == 0 {
		return nil
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"player_name", "position", "score", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("persist board: %w", err)
	}
	return nil
}

func gameRecord(g game.Game) db.Game {
	record := db.Game{
		ID:                 g.ID,
		CreatorID:          g.Options.CreatorID,
		State:              g.State.String(),
		MaxPlayers:         g.Options.MaxPlayers,
		MaxQuestionSeconds: seconds(g.Options.MaxQuestionTime),
		MaxAnswerSeconds:   seconds(g.Options.MaxAnswerTime),
		MaxRounds:          g.Options.MaxRounds,
		MaxActiveSeconds:   seconds(g.Options.MaxActiveTime),
		CurrentRound:       g.CurrentRound,
	}
	if g.State == game.StateActive {
		active := g.ActivePlayer
		until := g.ActiveUntil.UTC()
		record.ActivePlayerID = &active
		record.ActiveUntil = &until
	}
	return record
}

func boardRecords(g game.Game) []db.BoardRow {
	rows := make([]db.BoardRow, 0, len(g.Board.Rows))
	for _, row := range g.Board.Rows {
		rows = append(rows, db.BoardRow{
			GameID:     g.ID,
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			Position:   g.JoinIndex(row.PlayerID),
			Score:      row.Score,
		})
	}
	return rows
}

func eventRecord(ev game.Event) (db.Event, error) {
	payload, err := json.Marshal(publish.NewMessage(ev))
	if err != nil {
		return db.Event{}, fmt.Errorf("encode event: %w", err)
	}
	record := db.Event{
		Type:      string(ev.Type),
		Payload:   datatypes.JSON(payload),
		CreatedAt: ev.At.UTC(),
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if ev.Game != nil {
		id := ev.Game.ID
		record.GameID = &id
	}
	if ev.PlayerID != "" {
		id := ev.PlayerID
		record.PlayerID = &id
	}
	return record, nil
}

const uniqueViolationCode = "23505"

// isUniqueViolation matches the pgx errors the gorm postgres driver returns,
// and gorm's own error when translation is enabled.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}
