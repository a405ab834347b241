package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/bookql/internal/field"
)

// DriverName is the database/sql driver registered by this package: the
// stock sqlite3 driver plus the fold_upper function.
const DriverName = "sqlite3_bookql"

// FoldFunc is the SQL function compiled statements wrap columns in.
const FoldFunc = "fold_upper"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(FoldFunc, foldUpper, true)
		},
	})
}

// foldUpper folds a column value the way field.Upper folds filter values.
// NULL folds to the empty string.
func foldUpper(v any) string {
	switch x := v.(type) {
	case string:
		return field.Upper(x)
	case []byte:
		return field.Upper(string(x))
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	default:
		return field.Upper(fmt.Sprint(x))
	}
}
