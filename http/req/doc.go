/*
Package req provides ergonomics for reading the parameters of an HTTP request.

[NewParams] snapshots the three collections a parameter can come from:
the query string, the route path variables, and the body.
The body is read from url-encoded forms, multipart forms, and JSON objects alike.

[*Params.Resolve] selects the collection based on a declared HTTP verb.
A GET reads the query string, then the path, before falling back to the default;
every other verb reads the body before falling back to the default.
The value found is trimmed, and a blank result is replaced with the default.
Resolve never fails: an absent parameter is the default.

[*Params.Decode] fills a struct from the same collection
and validates it with [github.com/myschool/campus/validate.Struct].

Middleware stashes a *Params in the request context; retrieve it with [ParamsFromContext].
*/
package req
