// Package httpserve implements the authenticated HTTP transport. Each POST
// carries one request envelope in its body and receives one response
// envelope; the endpoint path is insignificant.
//
// Every request passes a fixed gate before it can reach the dispatcher, and
// the first failing check short-circuits the rest:
//
//  1. origin check   : loopback peers are rejected (403)
//  2. authentication : Authorization: Bearer <token> (401)
//  3. method/type    : POST with application/json (405, empty body)
//
// Transport-level rejections use plain HTTP status codes; anything that
// reaches the dispatcher comes back as 200 with a success or failure
// envelope in the body.
package httpserve
