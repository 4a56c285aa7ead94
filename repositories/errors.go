package repositories

import (
	"errors"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"strings"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStatusConflict means a conditional write found the post no longer in
	// the status the caller read.
	ErrStatusConflict = errors.New("post status changed concurrently")
	ErrDuplicate      = errors.New("duplicate record")
)

const (
	mysqlDuplicateEntry   = 1062
	postgresUniqueViolate = "23505"
	sqliteUniqueViolate   = "UNIQUE constraint failed"
)

// translate maps driver and gorm errors onto the package sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgresUniqueViolate
	}
	return strings.Contains(err.Error(), sqliteUniqueViolate)
}
