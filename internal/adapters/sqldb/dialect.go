// Package sqldb adapts database/sql drivers (lib/pq, go-sql-driver/mysql, go-sqlite3)
// to the storage ports.
package sqldb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect names a database/sql driver and the SQL flavor it speaks.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite3"
)

// ParseDialect maps a driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// DriverName is the name registered with database/sql.
func (d Dialect) DriverName() string { return string(d) }

// Rebind rewrites '?' placeholders into the dialect's bind style.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// MySQL server error numbers for integrity violations.
const (
	mysqlDuplicateEntry      = 1062
	mysqlBadNull             = 1048
	mysqlNoReferencedRow     = 1452
	mysqlRowIsReferenced     = 1451
	mysqlCheckConstraintFail = 3819
)

// IsConstraintViolation reports whether err is a driver-level integrity constraint error.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry, mysqlBadNull, mysqlNoReferencedRow, mysqlRowIsReferenced, mysqlCheckConstraintFail:
			return true
		}
		return false
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
