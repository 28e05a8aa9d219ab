/*
Package postgres manages the database connection. As part of the connection process, all migrations
are run on the database. Connecting to a database that is simply a target for testing drops the public schema first.

Translate converts database errors into compass sentinel errors.
*/
package postgres
