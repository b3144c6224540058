// Package mysqlclient implements the SQL capability of spec.md
// §4.A-SQL: a TCP-only connection used either to probe credentials via
// the handshake itself, or to run a query with named scalar
// parameters.
package mysqlclient

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// Connect dials host:port as user/password against database (may be
// empty) and pings it, so credential failures surface immediately
// rather than on first query.
func Connect(host string, port int, user, password, database string, timeout time.Duration) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?timeout=%s",
		user, password, host, port, database, timeout.String())
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.BadArg, "building mysql dsn")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, scopeerr.Annotatef(err, scopeerr.Io, "connecting to mysql at %s:%d", host, port)
	}
	return db, nil
}

// Row is a single result row, column name to the scalar Go value the
// driver scanned (nil, int64, float32, float64, []byte or time.Time).
type Row map[string]interface{}

// Query runs query with args bound positionally to its `?`
// placeholders (the driver only supports positional placeholders, so
// named args are resolved to `?`, in the order they appear in the
// query text, by the caller before reaching here) and returns every
// row as a Row.
func Query(db *sql.DB, query string, args []interface{}) ([]Row, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Protocol, "mysql query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Protocol, "reading mysql columns")
	}

	var out []Row
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, scopeerr.Annotatef(err, scopeerr.Protocol, "scanning mysql row")
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = convertScalar(raw[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Protocol, "iterating mysql rows")
	}
	return out, nil
}

// convertScalar copies []byte values so a Row never aliases the
// driver's reusable buffers; every other value is returned unchanged.
func convertScalar(v interface{}) interface{} {
	switch t := v.(type) {
	case []byte:
		return append([]byte(nil), t...)
	default:
		return t
	}
}
