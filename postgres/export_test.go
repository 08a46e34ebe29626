package postgres

var Pending = pending
