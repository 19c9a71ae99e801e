package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const (
	sqliteDriverNameConstant             = "sqlite"
	journalDirectoryPermissionsConstant  = 0o755
	journalDirectoryFailureTemplate      = "unable to create journal directory %s: %w"
	journalOpenFailureTemplateConstant   = "unable to open journal database %s: %w"
	journalSchemaFailureTemplateConstant = "unable to apply journal schema: %w"
	journalInsertFailureTemplateConstant = "unable to record audit run: %w"
	journalQueryFailureTemplateConstant  = "unable to query audit runs: %w"
	journalScanFailureTemplateConstant   = "unable to read audit run row: %w"
	startedAtColumnLayoutConstant        = time.RFC3339

	insertRunStatementConstant = `INSERT INTO audit_runs
 (started_at, document_reference, document_id, outcome, result_count, faulty_count, message)
 VALUES (?, ?, ?, ?, ?, ?, ?)`
	recentRunsQueryConstant = `SELECT started_at, document_reference, document_id, outcome, result_count, faulty_count, message
 FROM audit_runs ORDER BY id DESC LIMIT ?`
)

// Outcome labels one journaled invocation's terminal state.
type Outcome string

// Journaled outcome labels, one per pipeline exit.
const (
	OutcomeCompleted    Outcome = "completed"
	OutcomeInvalidInput Outcome = "invalid_input"
	OutcomeServerError  Outcome = "server_error"
	OutcomeNoResults    Outcome = "no_results"
	OutcomeScriptError  Outcome = "script_error"
	OutcomeBusy         Outcome = "busy"
)

// RunRecord captures one journaled audit invocation.
type RunRecord struct {
	StartedAt         time.Time
	DocumentReference string
	DocumentID        string
	Outcome           Outcome
	ResultCount       int
	FaultyCount       int
	Message           string
}

// Store persists the audit run journal in a SQLite database.
type Store struct {
	database *sql.DB
}

// OpenStore opens the journal database at databasePath, creating the file,
// its parent directory, and the schema when absent.
func OpenStore(databasePath string) (*Store, error) {
	journalDirectory := filepath.Dir(databasePath)
	if directoryError := os.MkdirAll(journalDirectory, journalDirectoryPermissionsConstant); directoryError != nil {
		return nil, fmt.Errorf(journalDirectoryFailureTemplate, journalDirectory, directoryError)
	}

	database, openError := sql.Open(sqliteDriverNameConstant, databasePath)
	if openError != nil {
		return nil, fmt.Errorf(journalOpenFailureTemplateConstant, databasePath, openError)
	}

	if _, schemaError := database.Exec(schemaSQL); schemaError != nil {
		database.Close()
		return nil, fmt.Errorf(journalSchemaFailureTemplateConstant, schemaError)
	}

	return &Store{database: database}, nil
}

// Close releases the underlying database handle.
func (store *Store) Close() error {
	return store.database.Close()
}

// RecordRun appends one invocation record to the journal.
func (store *Store) RecordRun(executionContext context.Context, record RunRecord) error {
	_, insertError := store.database.ExecContext(
		executionContext,
		insertRunStatementConstant,
		record.StartedAt.UTC().Format(startedAtColumnLayoutConstant),
		record.DocumentReference,
		record.DocumentID,
		string(record.Outcome),
		record.ResultCount,
		record.FaultyCount,
		record.Message,
	)
	if insertError != nil {
		return fmt.Errorf(journalInsertFailureTemplateConstant, insertError)
	}
	return nil
}

// RecentRuns returns up to limit records, most recent first.
func (store *Store) RecentRuns(executionContext context.Context, limit int) ([]RunRecord, error) {
	queryRows, queryError := store.database.QueryContext(executionContext, recentRunsQueryConstant, limit)
	if queryError != nil {
		return nil, fmt.Errorf(journalQueryFailureTemplateConstant, queryError)
	}
	defer queryRows.Close()

	var records []RunRecord
	for queryRows.Next() {
		var record RunRecord
		var startedAtText string
		var outcomeText string
		if scanError := queryRows.Scan(&startedAtText, &record.DocumentReference, &record.DocumentID, &outcomeText, &record.ResultCount, &record.FaultyCount, &record.Message); scanError != nil {
			return nil, fmt.Errorf(journalScanFailureTemplateConstant, scanError)
		}
		if parsedStartedAt, parseError := time.Parse(startedAtColumnLayoutConstant, startedAtText); parseError == nil {
			record.StartedAt = parsedStartedAt
		}
		record.Outcome = Outcome(outcomeText)
		records = append(records, record)
	}
	if rowsError := queryRows.Err(); rowsError != nil {
		return nil, fmt.Errorf(journalQueryFailureTemplateConstant, rowsError)
	}

	return records, nil
}
