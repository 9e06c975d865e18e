package cachedb

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/goalflow-lab/navrunner/internal/results"
)

// Run kinds recorded in the index.
const (
	KindFigures      = "figures"
	KindScore        = "score"
	KindDatasetCache = "dataset_cache"
	KindMetricCache  = "metric_cache"
)

// Run is one recorded orchestration run.
type Run struct {
	ID             string
	Kind           string
	ExperimentName string
	Agent          string
	Split          string
	SceneFilter    string
	StartedAt      time.Time
	FinishedAt     time.Time
	Success        bool
	Detail         string
}

// RunIdentity names what a run executed; the remaining Run fields are
// filled in by the index itself.
type RunIdentity struct {
	Kind           string
	ExperimentName string
	Agent          string
	Split          string
	SceneFilter    string
}

// RecordRunStart inserts a new run and returns its generated id.
func (db *DB) RecordRunStart(id RunIdentity) (string, error) {
	runID := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO runs (run_id, kind, experiment_name, agent, split, scene_filter, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, id.Kind, id.ExperimentName, id.Agent, id.Split, id.SceneFilter, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run start: %w", err)
	}
	return runID, nil
}

// RecordRunFinish marks a run finished. detail carries a short outcome
// description, e.g. the error message on failure or a figure count.
func (db *DB) RecordRunFinish(runID string, success bool, detail string) error {
	res, err := db.Exec(
		`UPDATE runs SET finished_at = ?, success = ?, detail = ? WHERE run_id = ?`,
		time.Now().Unix(), boolToInt(success), detail, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to record run finish: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("unknown run %s", runID)
	}
	return nil
}

// Runs returns all recorded runs, most recent first.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.Query(
		`SELECT run_id, kind, experiment_name, agent, split, scene_filter,
		        started_at, finished_at, success, detail
		 FROM runs ORDER BY started_at DESC, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		var finished sql.NullInt64
		var success sql.NullInt64
		var detail sql.NullString
		if err := rows.Scan(&r.ID, &r.Kind, &r.ExperimentName, &r.Agent, &r.Split,
			&r.SceneFilter, &started, &finished, &success, &detail); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(started, 0)
		if finished.Valid {
			r.FinishedAt = time.Unix(finished.Int64, 0)
		}
		r.Success = success.Valid && success.Int64 != 0
		r.Detail = detail.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ImportScores stores every numeric column of a result set as per-token
// scores under the given run. Returns the number of scores imported.
func (db *DB) ImportScores(runID string, rs *results.ResultSet) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO scores (run_id, token, metric, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, token := range rs.Tokens {
		row := rs.Row(token)
		for _, col := range rs.Columns {
			if col == "token" || col == "valid" {
				continue
			}
			value, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				continue
			}
			if _, err := stmt.Exec(runID, token, col, value); err != nil {
				return 0, fmt.Errorf("failed to import score for token %s: %w", token, err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// TokenScores returns the metric values recorded for a run, by token.
func (db *DB) TokenScores(runID, metric string) (map[string]float64, error) {
	rows, err := db.Query(
		`SELECT token, value FROM scores WHERE run_id = ? AND metric = ?`, runID, metric)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[string]float64)
	for rows.Next() {
		var token string
		var value float64
		if err := rows.Scan(&token, &value); err != nil {
			return nil, err
		}
		scores[token] = value
	}
	return scores, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
