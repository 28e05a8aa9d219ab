/*
Package req parses the payloads of HTTP requests into structs.

It supports JSON-encoded bodies, URL-encoded forms and query parameters.
Structs tag fields with "json" or "schema" to match keys in the payload,
and with "validate" for the rules the data must meet.
The "enum" rule requires a field, or each element of a slice field, be a valid compass.Enumerable.

Errors are translated to compass sentinel errors,
so handlers see the same failures across encodings:
a payload breaking its rules returns ValidationErrors, which match compass.ErrNotValid.
*/
package req
