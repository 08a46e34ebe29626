/*
Package postgres manages the database connection.
Connecting also runs every migration not yet applied;
when the database is only a target for tests, the public schema is dropped first.

[*DB] wraps [gorm.DB] with chainable query building methods
and finisher methods that translate database failures into campus errors,
e.g., no rows into [campus.ErrNotExist] and unique violations into [campus.ErrExists].
*/
package postgres
