package repository

import (
    "errors"

    "github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the repositories react to. Uniqueness and
// referential integrity are enforced by the engine; the application
// only translates the rejections into sentinel errors.
const (
    erDupEntry        = 1062 // duplicate entry for a unique key
    erRowIsReferenced = 1451 // cannot delete parent row, FK still references it
)

// isMySQLErr reports whether err is a MySQL server error with the given
// number.
func isMySQLErr(err error, number uint16) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == number
}
