/*
Package professor serves create, read, update and delete of professor records over HTTP.

Records live in PostgreSQL behind [Store]; [*DBStore] implements it with [postgres.DB].
[*Handler] reads every input through [req.Params], checks it with package validate,
and renders results in the response envelope: a single record as "item",
a page of records as "item" alongside "pagenation".
*/
package professor
