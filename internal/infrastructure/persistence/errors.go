package persistence

import (
	"errors"
	"regexp"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/phonestore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// MySQL error numbers
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow2 = 1216
)

var mysqlConstraintPattern = regexp.MustCompile("CONSTRAINT `([^`]+)`")

// constraintMessages maps foreign key names to the messages shown to users
var constraintMessages = map[string]string{
	"fk_order_details_color":      "The selected color no longer exists",
	"fk_order_details_product":    "A product in the order no longer exists",
	"fk_order_details_order":      "The order no longer exists",
	"fk_orders_shipping_address":  "The shipping address is invalid",
	"fk_orders_customer":          "The customer no longer exists",
	"fk_products_category":        "The selected category does not exist",
	"fk_products_discount":        "The selected discount program does not exist",
	"fk_product_images_product":   "The product no longer exists",
	"fk_product_images_color":     "The selected color does not exist",
	"fk_warranties_order_detail":  "The order line no longer exists",
	"fk_warranty_claims_warranty": "The warranty no longer exists",
	"fk_customers_membership":     "The selected membership does not exist",
	"fk_admins_role":              "The selected role does not exist",
}

// translateError converts driver errors into domain errors. Constraint
// violations get user-facing messages; any other driver error becomes
// DATABASE_ERROR carrying the driver's own text. Errors that did not come
// from a driver pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			if strings.HasPrefix(pgErr.Message, "insert or update") {
				return foreignKeyError(pgErr.ConstraintName, err)
			}
			return referencedError(err)
		case pgUniqueViolation:
			return alreadyExistsError(err)
		}
		return databaseError(pgErr.Message, err)
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return alreadyExistsError(err)
		case mysqlRowIsReferenced, mysqlRowIsReferenced2:
			return referencedError(err)
		case mysqlNoReferencedRow, mysqlNoReferencedRow2:
			name := ""
			if m := mysqlConstraintPattern.FindStringSubmatch(myErr.Message); m != nil {
				name = m[1]
			}
			return foreignKeyError(name, err)
		}
		return databaseError(myErr.Message, err)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			// SQLite does not name the constraint or the side that failed;
			// deletes go through translateDeleteError instead.
			return foreignKeyError("", err)
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return alreadyExistsError(err)
		}
		return databaseError(liteErr.Error(), err)
	}
	return err
}

// translateDeleteError is translateError for DELETE statements, where any
// foreign key violation means the row is still referenced
func translateDeleteError(err error) error {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return referencedError(err)
	}
	return translateError(err)
}

func alreadyExistsError(err error) error {
	return shared.WrapDomainError("ALREADY_EXISTS", "A record with the same value already exists", err)
}

// databaseError surfaces an unclassified driver failure with its message
func databaseError(message string, err error) error {
	if message == "" {
		message = err.Error()
	}
	return shared.WrapDomainError("DATABASE_ERROR", message, err)
}

// foreignKeyError reports a write that points at a missing row
func foreignKeyError(constraint string, err error) error {
	if msg, ok := constraintMessages[constraint]; ok {
		return shared.WrapDomainError("INVALID_INPUT", msg, err)
	}
	return shared.WrapDomainError("INVALID_INPUT", "A referenced record does not exist", err)
}

// referencedError reports a delete of a row that others still point at
func referencedError(err error) error {
	return shared.WrapDomainError("HAS_REFERENCES", "The record is referenced by other data", err)
}
