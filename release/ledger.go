package release

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Ledger is a SQLite history of release runs.
type Ledger struct {
	db *sql.DB
}

// Record is one row of the ledger.
type Record struct {
	ID         int64
	Project    string
	Version    string
	Archive    string
	SHA1       string
	Members    int
	PushCode   int
	StatusCode int
	Created    time.Time
}

// OpenLedger opens the ledger in file, creating it if needed.
func OpenLedger(file string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS release (id INTEGER PRIMARY KEY NOT NULL, project TEXT NOT NULL, version TEXT NOT NULL, archive TEXT NOT NULL, sha1 TEXT NOT NULL, members INTEGER NOT NULL, push_status INTEGER NOT NULL, status_status INTEGER NOT NULL, created INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Ledger{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores r and returns its row id.
func (l *Ledger) Record(r *Result) (int64, error) {
	var archive, sha string
	var members int
	if r.Archive != nil {
		archive = r.Archive.Path
		sha = r.Archive.SHA1
		members = len(r.Archive.Members)
	}

	result, err := l.db.Exec("INSERT INTO release (project, version, archive, sha1, members, push_status, status_status, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", r.Project, r.Version, archive, sha, members, r.PushCode, r.StatusCode, r.Created.Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.ID, &r.Project, &r.Version, &r.Archive, &r.SHA1, &r.Members, &r.PushCode, &r.StatusCode, &created); err != nil {
			return nil, err
		}
		r.Created = time.Unix(created, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// History returns every run for project, newest first.
func (l *Ledger) History(project string) ([]Record, error) {
	rows, err := l.db.Query("SELECT id, project, version, archive, sha1, members, push_status, status_status, created FROM release WHERE project = ? ORDER BY id DESC", project)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// Latest returns the most recent successfully pushed release of project, or
// nil if there is none.
func (l *Ledger) Latest(project string) (*Record, error) {
	var r Record
	var created int64
	switch err := l.db.QueryRow("SELECT id, project, version, archive, sha1, members, push_status, status_status, created FROM release WHERE project = ? AND push_status = 0 ORDER BY id DESC LIMIT 1", project).Scan(&r.ID, &r.Project, &r.Version, &r.Archive, &r.SHA1, &r.Members, &r.PushCode, &r.StatusCode, &created); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		r.Created = time.Unix(created, 0)
		return &r, nil
	default:
		return nil, err
	}
}
