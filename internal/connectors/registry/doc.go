// Package registry implements the registry client for an Airtable-shaped
// REST API.
//
// The registry is the source of record for document identities. Each record
// carries an identifier field ("Ordinance #54-89") and, once linked, the
// corpus path of its file.
//
// # Endpoints
//
//   - GET  {base_url}/{base_id}/{table}?pageSize=100&offset=...  list records
//   - POST {base_url}/{base_id}/{table}                          create a record
//
// Listing follows the "offset" cursor until the response omits it.
//
// # Pacing and retries
//
// Requests are issued sequentially. Each one waits on a token bucket that
// allows one request per configured delay, and a 429 response pauses the
// limiter for the Retry-After duration. Network failures, 429 and 5xx
// responses are retried up to the configured number of attempts with linear
// backoff; any other 4xx fails immediately. Writes are only retried on 429.
//
// # Authentication
//
// The API key or personal access token is sent as a bearer token through an
// oauth2 static token source.
package registry
