package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

var _ Store = (*MySQL)(nil)

// Schema of the documents table. The JSON column works on MySQL 5.7+ and
// MariaDB 10.2+ (where JSON is an alias checked with JSON_VALID).
const DocumentsSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		path VARCHAR(512) NOT NULL PRIMARY KEY,
		collection VARCHAR(512) NOT NULL,
		doc_id VARCHAR(191) NOT NULL,
		data JSON NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_documents_collection (collection)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

const (
	setDocumentSQL = `INSERT INTO documents (path, collection, doc_id, data) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE data = VALUES(data)`
	mergeDocumentSQL = `INSERT INTO documents (path, collection, doc_id, data) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE data = JSON_MERGE_PATCH(data, VALUES(data))`
)

// MySQL stores one row per document. A batch is one SQL transaction.
type MySQL struct {
	db *sql.DB
}

// NewMySQL wraps an open connection. The documents table must exist (see
// DocumentsSchema / db.EnsureSchema).
func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

func (s *MySQL) Batch() Batch {
	return &mysqlBatch{db: s.db}
}

func (s *MySQL) Get(ctx context.Context, path Path) (Document, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = ?`, string(path)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: get %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("docstore: decode %s: %w", path, err)
	}
	return doc, nil
}

func (s *MySQL) List(ctx context.Context, collection string) (map[string]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_id, data FROM documents WHERE collection = ? ORDER BY doc_id`, collection)
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}
	defer rows.Close()

	out := make(map[string]Document)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("docstore: decode %s/%s: %w", collection, id, err)
		}
		out[id] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}
	return out, nil
}

func (s *MySQL) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("docstore: count: %w", err)
	}
	return n, nil
}

// Close is a no-op: the *sql.DB belongs to the caller.
func (s *MySQL) Close() error {
	return nil
}

type mysqlBatch struct {
	writeSet
	db *sql.DB
}

func (b *mysqlBatch) Commit(ctx context.Context) error {
	encoded, err := b.encode()
	if err != nil {
		return err
	}
	if len(encoded) == 0 {
		return nil
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("docstore: begin tx: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	for _, e := range encoded {
		query := setDocumentSQL
		if e.kind == opMerge {
			query = mergeDocumentSQL
		}
		if _, err := tx.ExecContext(ctx, query, string(e.path), e.path.Collection(), e.path.ID(), string(e.body)); err != nil {
			return fmt.Errorf("docstore: %s %s: %w", e.kind, e.path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("docstore: commit: %w", err)
	}
	return nil
}
