package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/myschool/campus"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const violatesFK = "violates foreign key constraint"

// safeGORMSession forces a fresh *gorm.Statement so a query can be reused as a subquery or count.
var safeGORMSession = &gorm.Session{}

// errNilArg marks a nil query argument.
var errNilArg = errors.New("nil arg")

type DB struct {
	// *gorm.DB's methods are generally unsafe to use.
	// Some *gorm.DB methods are not thread-safe
	// and mutate the state of the *gorm.DB backing DB.
	//
	// If a *gorm.DB method calls *gorm.DB.getInstance,
	// it creates a new pointer and is safe.
	// If it does not, use *gorm.DB.Session to force a clean pointer.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the underlying *gorm.DB backing DB.
//
// NB: use in exceptional circumstances only.
func (db *DB) DB() *gorm.DB { return db.db }

// **************************************************************************
// FINISHER METHODS
//
// These methods close out a current query, executing it.
// All finisher methods are terminal and cannot be chained.
// They return any errors occuring within the query chain
// or when executing the query.
//
// **************************************************************************

// Count returns the number of records matching the current query or an error.
func (db *DB) Count() (int64, error) {
	if db.db.Error != nil {
		return 0, db.db.Error
	}

	var count int64
	if err := db.db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %s", campus.ErrUnexpected, err)
	}

	return count, nil
}

// Create inserts value into the database, updating value with new data yielding from that insertion.
//
// Value must be a pointer, otherwise ErrNotValid returns.
// If value violates a foreign key constraint defined by the database, ErrNotValid returns.
// If value violates a unique constraint defined by the database, ErrExists returns.
// If value is not a database table, ErrMissingData returns.
func (db *DB) Create(value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T must be a non-nil pointer or slice", campus.ErrNotValid, value)
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	err = db.db.Session(&gorm.Session{FullSaveAssociations: false}).Create(value).Error
	switch {
	case err == nil:
		return nil

	case errors.Is(err, schema.ErrUnsupportedDataType), errors.Is(err, gorm.ErrInvalidData):
		return fmt.Errorf("%w: %T is not a table", campus.ErrMissingData, value)

	case strings.Contains(err.Error(), violatesFK), errConstraintViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", campus.ErrNotValid, err)

	case errUniqViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", campus.ErrExists, err)

	default:
		return fmt.Errorf("%w: failed creating %T: %s", campus.ErrUnexpected, value, err)
	}
}

// Delete deletes the database records matching the current query and value.
//
// If nothing is deleted, ErrNotExist returns.
func (db *DB) Delete(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Delete(value)
	if errors.Is(res.Error, schema.ErrUnsupportedDataType) {
		return fmt.Errorf("%w: cannot parse table name from %T", campus.ErrMissingData, value)
	}

	if res.Error != nil && strings.Contains(res.Error.Error(), violatesFK) {
		return fmt.Errorf("%w: %s", campus.ErrNotValid, res.Error)
	}

	if res.Error != nil {
		return fmt.Errorf("%w: failed deleting %T: %s", campus.ErrUnexpected, value, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %T", campus.ErrNotExist, value)
	}

	return nil
}

// Exec executes SQL query sql, passing values to it.
//
// If the query executed does not affect any records, Exec returns ErrNotExist.
// Callers running DDL ought to ignore this error.
func (db *DB) Exec(sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	var err error
	values, err = unwrap(values...)
	if err != nil && !errors.Is(err, errNilArg) {
		return err
	}

	res := db.db.Exec(sql, values...)
	if res.Error != nil {
		return fmt.Errorf("%w: %s", campus.ErrUnexpected, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: exec failed to affect any rows", campus.ErrNotExist)
	}

	return nil
}

// Find retrieves all records matching the current query
// and stores them in dest.
//
// If dest is not a valid type for the table queried,
// then ErrNotValid returns.
// If no matches are found, Find returns ErrNotExist.
func (db *DB) Find(dest any) (err error) {
	badDest := fmt.Errorf("%w: %T cannot be scanned into", campus.ErrNotValid, dest)
	defer func() {
		if r := recover(); r != nil {
			err = badDest
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Find(dest)
	err = res.Error
	if err != nil && errSQLScan.MatchString(err.Error()) {
		return badDest
	}

	if err != nil && errSQLSyntax.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s", campus.ErrNotValid, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %s", campus.ErrUnexpected, err)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w", campus.ErrNotExist)
	}

	return nil
}

// First retrieves a single record from the database matching the query
// and stores it in dest.
//
// If no matches are found, First returns ErrNotExist.
func (db *DB) First(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %T", campus.ErrNotExist, dest)
	}

	if err != nil && errSQLSyntax.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s", campus.ErrNotValid, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %s", campus.ErrUnexpected, err)
	}

	return nil
}

// Paged turns the results of the current query into a paginated version: PagedData.
//
// Paged requires Model to have been called so the type of the items is known.
func (db *DB) Paged(page, perPage int64) (pd PagedData, err error) {
	defer func() {
		// NOTE: This method uses reflect and so can panic.
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: Paged panicked: %s", campus.ErrUnexpected, r)
			pd = PagedData{}
		}
	}()

	if db.db.Error != nil {
		return PagedData{}, db.db.Error
	}

	model := db.db.Statement.Model
	if model == nil {
		return PagedData{}, fmt.Errorf("%w: must use Model with Paged", campus.ErrNotValid)
	}

	reflectType := reflect.TypeOf(model).Elem()
	if reflectType.Kind() != reflect.Slice {
		model = reflect.New(reflect.SliceOf(reflectType)).Interface()
	}

	pd.Items = model
	pd.Page = max(1, page)
	pd.PerPage = max(1, perPage)

	totalRecords, err := (&DB{db: db.db.Session(safeGORMSession)}).Count()
	if err != nil {
		return PagedData{}, err
	}

	offset := int((pd.Page - 1) * pd.PerPage)
	err = db.Limit(int(pd.PerPage)).Offset(offset).Find(pd.Items)
	if err != nil && !errors.Is(err, campus.ErrNotExist) {
		return PagedData{}, err
	}

	pd.TotalItems = totalRecords
	pd.TotalPages = ceilDiv(totalRecords, pd.PerPage)

	return pd, nil
}

// Update replaces existing data on all records matching the query with values.
//
// If no records are updated, ErrNotExist returns.
func (db *DB) Update(values map[string]any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if len(values) == 0 {
		return fmt.Errorf("%w: no columns set", campus.ErrMissingData)
	}

	res := db.db.Updates(values)
	switch {
	case res.RowsAffected == 0 && res.Error == nil:
		return fmt.Errorf("%w", campus.ErrNotExist)

	case res.Error == nil:
		return nil

	case errUniqViolation.MatchString(res.Error.Error()):
		return fmt.Errorf("%w: %s", campus.ErrExists, res.Error)

	case strings.Contains(res.Error.Error(), violatesFK), errConstraintViolation.MatchString(res.Error.Error()):
		return fmt.Errorf("%w: %s", campus.ErrNotValid, res.Error)

	default:
		return fmt.Errorf("%w: %s", campus.ErrUnexpected, res.Error)
	}
}

// **************************************************************************
// QUERY BUILDING METHODS
//
// Query building methods initiate a query and then add clauses to it
// until a finisher method is called.
//
// **************************************************************************

// Limit applies a LIMIT clause to the current query.
func (db *DB) Limit(limit int) *DB {
	// NOTE: GORM drops a negative LIMIT; PostgreSQL rejects it.
	// This Limit mirrors PostgreSQL, not GORM.
	if limit < 0 {
		return db.withError(fmt.Errorf("%w: limit must not be negative", campus.ErrNotValid))
	}

	return &DB{db: db.db.Limit(limit)}
}

// Model declares the table used for the query.
//
// The table name derives from the type of model, e.g., Professor -> professors,
// unless model implements: func TableName() string
func (db *DB) Model(model any) *DB { return &DB{db: db.db.Model(model)} }

// Offset applies an OFFSET clause to the current query.
func (db *DB) Offset(offset int) *DB {
	if offset < 0 {
		return db.withError(fmt.Errorf("%w: offset must not be negative", campus.ErrNotValid))
	}

	return &DB{db: db.db.Offset(offset)}
}

// Or applies an OR clause to the current query.
func (db *DB) Or(query any, args ...any) *DB {
	q, args, err := clause("Or", query, args...)
	if err != nil {
		return db.withError(err)
	}

	return &DB{db: db.db.Or(q, args...)}
}

// Order applies an ORDER BY clause to the current query.
func (db *DB) Order(order string) *DB { return &DB{db: db.db.Order(order)} }

// Where applies the query fragment or subquery to the current query
// as a WHERE or AND clause.
//
// Where supports one or none args.
// If more than one arg is passed, finisher methods return ErrNotValid.
func (db *DB) Where(query any, args ...any) *DB {
	q, args, err := clause("Where", query, args...)
	if err != nil {
		return db.withError(err)
	}

	return &DB{db: db.db.Where(q, args...)}
}

// **************************************************************************
// TRANSACTION METHODS
// **************************************************************************

// Begin initializes a database transaction.
func (db *DB) Begin(opts ...*sql.TxOptions) *DB {
	return &DB{db: db.db.Begin(opts...)}
}

// Commit completes the current transaction.
func (db *DB) Commit() error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := db.db.Commit().Error; err != nil {
		return fmt.Errorf("%w: failed committing tx: %s", campus.ErrUnexpected, err)
	}

	return nil
}

// Transaction runs fn inside a transaction,
// committing when fn returns nil and rolling back otherwise.
func (db *DB) Transaction(fn func(tx *DB) error) (err error) {
	tx := db.Begin()
	if tx.db.Error != nil {
		return fmt.Errorf("%w: failed beginning tx: %s", campus.ErrUnexpected, tx.db.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Join(err, rerr)
		}

		return err
	}

	return tx.Commit()
}

// Rollback reverts the current transaction.
// If no transaction is open, Rollback returns an error.
func (db *DB) Rollback() error {
	if err := db.db.Rollback().Error; err != nil {
		return fmt.Errorf("%w: failed rolling back tx: %s", campus.ErrUnexpected, err)
	}

	return nil
}

// **************************************************************************
// HELPERS
// **************************************************************************

func (db *DB) withError(err error) *DB {
	gdb := db.db.Session(safeGORMSession)
	_ = gdb.AddError(err)
	return &DB{db: gdb}
}

// clause checks and unwraps the query and args for Where and Or.
func clause(name string, query any, args ...any) (any, []any, error) {
	if len(args) > 1 {
		return nil, nil, fmt.Errorf("%w: %s supports one or none args", campus.ErrNotValid, name)
	}

	args, err := unwrap(args...)
	if err != nil && !errors.Is(err, errNilArg) {
		return nil, nil, err
	}

	q, err := unwrap(query)
	if err != nil {
		return nil, nil, err
	}

	return q[0], args, nil
}

// unwrap exposes the *gorm.DB behind any *DB passed as a subquery.
//
// A *DB in an error state surfaces that error,
// so a finisher method returns early rather than running a partial query.
func unwrap(args ...any) ([]any, error) {
	var err error
	res := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case *DB:
			gdb := v.DB()
			if gdb.Error != nil {
				err = errors.Join(err, gdb.Error)
			}
			res[i] = gdb

		case nil:
			res[i] = arg
			err = errors.Join(err, campus.ErrNotValid, errNilArg)

		default:
			res[i] = arg
		}
	}

	return res, err
}

// ceilDiv divides n by d rounding up, using math/big for accurate division.
func ceilDiv(n, d int64) int64 {
	if n <= 0 || d <= 0 {
		return 0
	}

	q := new(big.Float).Quo(new(big.Float).SetInt64(n), new(big.Float).SetInt64(d))

	// NOTE: Int64 rounds towards zero; add one when it truncated.
	i, acc := q.Int64()
	if acc == big.Below {
		i++
	}

	return i
}
