/*
Package resp provides a high-level API for responding to HTTP requests
with an easy way to configure the responses application-wide.

Every response is a JSON envelope:

	{"rt": 200, "rtmsg": "OK", ...fields, "pubdate": "2024-03-01T09:00:00.000Z"}

rt repeats the HTTP status code, rtmsg describes the outcome,
fields are whatever the handler supplies, and pubdate is the time the server wrote the response.

[*Responder.Err] is the single place errors become responses.
A [*github.com/myschool/campus.Error] renders with its own status code and message;
any other error renders as a 500 Runtime error carrying the error's message.
*/
package resp
