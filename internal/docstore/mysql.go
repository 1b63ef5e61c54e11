package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// MySQLStore keeps every collection in the documents table (see
// database.Migrate). The composite primary key (collection, doc_key)
// gives Create its create-if-absent guarantee.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore returns a MySQLStore bound to db.
func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{db: db} }

func (s *MySQLStore) Get(ctx context.Context, coll, key string) (Document, error) {
	const q = `SELECT data FROM documents WHERE collection = ? AND doc_key = ?`
	var raw []byte
	if err := s.db.QueryRowContext(ctx, q, coll, key).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	data, err := decode(raw)
	if err != nil {
		return Document{}, err
	}
	return Document{Key: key, Data: data}, nil
}

func (s *MySQLStore) Query(ctx context.Context, coll string, q Query) ([]Document, error) {
	var b strings.Builder
	b.WriteString(`SELECT doc_key, data FROM documents WHERE collection = ?`)
	args := []any{coll}
	for _, f := range q.Filters {
		if err := checkField(f.Field); err != nil {
			return nil, err
		}
		b.WriteString(` AND JSON_UNQUOTE(JSON_EXTRACT(data, ?)) = ?`)
		args = append(args, jsonPath(f.Field), Canonical(f.Value))
	}
	b.WriteString(` ORDER BY `)
	if q.OrderBy != "" {
		if err := checkField(q.OrderBy); err != nil {
			return nil, err
		}
		b.WriteString(`JSON_EXTRACT(data, ?)`)
		if q.Desc {
			b.WriteString(` DESC`)
		}
		b.WriteString(`, `)
		args = append(args, jsonPath(q.OrderBy))
	}
	b.WriteString(`seq`)
	if q.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var (
			key string
			raw []byte
		)
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		data, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Document{Key: key, Data: data})
	}
	return out, rows.Err()
}

func (s *MySQLStore) Insert(ctx context.Context, coll string, data map[string]any) (string, error) {
	key := uuid.NewString()
	if err := s.Create(ctx, coll, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (s *MySQLStore) Create(ctx context.Context, coll, key string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	const q = `INSERT INTO documents (collection, doc_key, data) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, coll, key, raw); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *MySQLStore) Set(ctx context.Context, coll, key string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	const q = `INSERT INTO documents (collection, doc_key, data) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE data = VALUES(data)`
	_, err = s.db.ExecContext(ctx, q, coll, key, raw)
	return err
}

func (s *MySQLStore) Update(ctx context.Context, coll, key string, fields map[string]any) error {
	set, args, err := jsonSet(fields)
	if err != nil {
		return err
	}
	q := `UPDATE documents SET data = ` + set + ` WHERE collection = ? AND doc_key = ?`
	res, err := s.db.ExecContext(ctx, q, append(args, coll, key)...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	// Zero rows also means the values were already in place.
	_, err = s.Get(ctx, coll, key)
	return err
}

func (s *MySQLStore) UpdateIf(ctx context.Context, coll, key string, unless Filter, fields map[string]any) error {
	if err := checkField(unless.Field); err != nil {
		return err
	}
	set, args, err := jsonSet(fields)
	if err != nil {
		return err
	}
	q := `UPDATE documents SET data = ` + set + ` WHERE collection = ? AND doc_key = ?` +
		` AND COALESCE(JSON_UNQUOTE(JSON_EXTRACT(data, ?)), '') <> ?`
	args = append(args, coll, key, jsonPath(unless.Field), Canonical(unless.Value))
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	doc, err := s.Get(ctx, coll, key)
	if err != nil {
		return err
	}
	if doc.String(unless.Field) == Canonical(unless.Value) {
		return ErrConditionFailed
	}
	return nil
}

func (s *MySQLStore) Delete(ctx context.Context, coll, key string) error {
	const q = `DELETE FROM documents WHERE collection = ? AND doc_key = ?`
	_, err := s.db.ExecContext(ctx, q, coll, key)
	return err
}

func (s *MySQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func jsonPath(field string) string { return "$." + field }

// jsonSet builds a JSON_SET expression for fields in key order.
func jsonSet(fields map[string]any) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, errors.New("no fields to update")
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if err := checkField(k); err != nil {
			return "", nil, err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("JSON_SET(data")
	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		raw, err := json.Marshal(fields[k])
		if err != nil {
			return "", nil, fmt.Errorf("encode field %s: %w", k, err)
		}
		b.WriteString(", ?, CAST(? AS JSON)")
		args = append(args, jsonPath(k), string(raw))
	}
	b.WriteString(")")
	return b.String(), args, nil
}

func decode(raw []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
