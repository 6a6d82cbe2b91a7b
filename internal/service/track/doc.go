// Package track implements the open-event recording core.
//
// The service layer contains all business logic for issuing tracking tokens
// and recording first-open events. It depends on the repository and cache
// interfaces defined in this package and should never import from api/.
//
// Repository implementations live in repository/postgres/; the optional
// seen-cache implementation lives in cache/.
//
// The recorder's one hard guarantee lives here: RecordOpen never returns an
// error. Every fault — missing token, unknown token, store timeout, malformed
// store response — is absorbed, logged, and mapped to an outcome the HTTP
// layer answers with the same pixel response.
package track
