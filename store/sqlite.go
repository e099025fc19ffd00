// Package store keeps a ledger of finished games in SQLite
package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/they4kman/duelsweep/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id           TEXT PRIMARY KEY,
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP NOT NULL,
	p0_addr      TEXT NOT NULL,
	p0_moves     INTEGER NOT NULL,
	p0_detonated INTEGER NOT NULL,
	p0_outcome   TEXT NOT NULL,
	p1_addr      TEXT NOT NULL,
	p1_moves     INTEGER NOT NULL,
	p1_detonated INTEGER NOT NULL,
	p1_outcome   TEXT NOT NULL
)`

// Record is one finished game as stored in the ledger
type Record struct {
	GameID     string
	StartedAt  time.Time
	FinishedAt time.Time
	Players    [game.NumParticipants]PlayerRecord
}

type PlayerRecord struct {
	Addr      string
	Moves     int
	Detonated int
	Outcome   string
}

type SQLiteStore struct {
	db *sql.DB
}

var _ game.ResultRecorder = (*SQLiteStore)(nil)

func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (store *SQLiteStore) Record(result *game.Result) error {
	const query = `INSERT INTO games (
		id, started_at, finished_at,
		p0_addr, p0_moves, p0_detonated, p0_outcome,
		p1_addr, p1_moves, p1_detonated, p1_outcome
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	first, second := result.Players[0], result.Players[1]
	_, err := store.db.Exec(query,
		result.GameID, result.StartedAt.UTC(), result.FinishedAt.UTC(),
		first.Addr, first.CountMove, first.CountDetonatedMine, first.Outcome.String(),
		second.Addr, second.CountMove, second.CountDetonatedMine, second.Outcome.String(),
	)
	if err != nil {
		return errors.Wrapf(err, "recording game %s", result.GameID)
	}
	return nil
}

// Recent returns up to limit games, most recently finished first
func (store *SQLiteStore) Recent(limit int) ([]Record, error) {
	const query = `SELECT
		id, started_at, finished_at,
		p0_addr, p0_moves, p0_detonated, p0_outcome,
		p1_addr, p1_moves, p1_detonated, p1_outcome
	FROM games ORDER BY finished_at DESC LIMIT ?`

	rows, err := store.db.Query(query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing games")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		first, second := &record.Players[0], &record.Players[1]
		if err := rows.Scan(
			&record.GameID, &record.StartedAt, &record.FinishedAt,
			&first.Addr, &first.Moves, &first.Detonated, &first.Outcome,
			&second.Addr, &second.Moves, &second.Detonated, &second.Outcome,
		); err != nil {
			return nil, errors.Wrap(err, "reading game")
		}
		records = append(records, record)
	}
	return records, errors.Wrap(rows.Err(), "listing games")
}

func (store *SQLiteStore) Close() error {
	return store.db.Close()
}
