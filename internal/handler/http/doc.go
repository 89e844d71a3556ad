// Package http implements the calling protocol of the sync bridge over HTTP.
//
// POST /api/actions/{action} submits an action with its JSON arguments object
// and waits for the single outcome. GET /api/events streams progress events as
// server-sent events of type "sync". GET /api/version and GET /metrics expose
// build and runtime information. Request tracing, access logging and panic
// recovery are handled by middleware before requests reach the dispatcher.
package http
