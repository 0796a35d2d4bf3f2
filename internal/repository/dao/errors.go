package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrAdminEmailExists = errors.New("admin already exists")
	ErrAdminNotFound    = errors.New("admin not found")
	ErrPilgrimNotFound  = errors.New("pilgrim not found")
	ErrNationalIDExists = errors.New("a pilgrim with this national id already exists")
	ErrHallNotFound     = errors.New("hall not found")
	ErrBedNotFound      = errors.New("bed not found")
	ErrPackageNotFound  = errors.New("package not found")
	ErrPackageInUse     = errors.New("package is assigned to pilgrims")
	ErrLookupNotFound   = errors.New("lookup item not found")
	ErrBusNotFound      = errors.New("bus not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrImportNotFound   = errors.New("import history not found")
	ErrUnknownReference = errors.New("unknown reference")
	ErrCampNotInRitual  = errors.New("camp does not belong to the selected ritual")
)

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		strings.Contains(pgErr.Message, `unique constraint "`+constraint+`"`)
}
