package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/verdantio/verdant/estimate"
	"github.com/verdantio/verdant/util"
)

// Decision is one persisted watering decision
type Decision struct {
	ID       string            `json:"id"`
	At       time.Time         `json:"at"`
	Step     int               `json:"step"`
	Readings estimate.Readings `json:"readings"`
	Minutes  float64           `json:"minutes"`
}

// DB is a sqlite-backed log of watering decisions
type DB struct {
	db  *sql.DB
	log *logrus.Entry
}

// Open opens (or creates) the decision log at path
func Open(path string) (s *DB, err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		err = fmt.Errorf("could not open decision log: %v", err)
		return
	}
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		err = fmt.Errorf("could not enable WAL mode: %v", err)
		return
	}
	s = &DB{db, util.Logger.WithField("module", "store")}
	err = s.migrate()
	return
}

func (s *DB) migrate() (err error) {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			at DATETIME NOT NULL,
			step INTEGER NOT NULL,
			soil_moisture REAL NOT NULL,
			temperature REAL NOT NULL,
			air_humidity REAL NOT NULL,
			minutes REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_at ON decisions(at)`,
	}
	for _, migration := range migrations {
		if _, err = s.db.Exec(migration); err != nil {
			err = fmt.Errorf("migration failed: %v", err)
			return
		}
	}
	return
}

// Close closes the underlying database
func (s *DB) Close() error {
	return s.db.Close()
}

// RecordDecision appends one watering decision to the log
func (s *DB) RecordDecision(step int, r estimate.Readings, minutes float64) (err error) {
	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO decisions (id, at, step, soil_moisture, temperature, air_humidity, minutes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), step, r.SoilMoisture, r.Temperature, r.AirHumidity, minutes)
	if err != nil {
		err = fmt.Errorf("could not record decision: %v", err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"id": id, "step": step, "minutes": minutes,
	}).Debug("recorded decision")
	return
}

// RecentDecisions returns up to limit decisions, newest first
func (s *DB) RecentDecisions(limit int) (decisions []Decision, err error) {
	rows, err := s.db.Query(
		`SELECT id, at, step, soil_moisture, temperature, air_humidity, minutes
		 FROM decisions ORDER BY at DESC, step DESC LIMIT ?`, limit)
	if err != nil {
		err = fmt.Errorf("could not query decisions: %v", err)
		return
	}
	defer rows.Close()

	decisions = make([]Decision, 0, limit)
	for rows.Next() {
		var d Decision
		err = rows.Scan(&d.ID, &d.At, &d.Step,
			&d.Readings.SoilMoisture, &d.Readings.Temperature,
			&d.Readings.AirHumidity, &d.Minutes)
		if err != nil {
			err = fmt.Errorf("could not scan decision: %v", err)
			return
		}
		decisions = append(decisions, d)
	}
	err = rows.Err()
	return
}
