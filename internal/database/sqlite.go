package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DriverName is go-sqlite3 with the application's SQL functions registered
// on every connection.
const DriverName = "sqlite3_storyarc"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", Fold, true)
		},
	})
}

// Fold lowercases s with Unicode rules. SQLite's LOWER only folds ASCII.
// Available in SQL as fold(text); the argument must not be NULL.
func Fold(s string) string {
	return strings.ToLower(s)
}

// Dialector returns a gorm dialector for dsn that uses DriverName.
func Dialector(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: DriverName, DSN: dsn})
}
