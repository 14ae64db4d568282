// Package server hosts a workflow MCP server over HTTP.
//
// The MCP endpoint is served twice: as streamable HTTP on /mcp and as the
// older SSE transport on /sse with messages posted to /message. Each MCP
// client session maps to its own workflow session, so concurrent clients
// progress independently through the same workflow.
//
// Next to the transports the server exposes a small operator API:
//
//   - GET /health: liveness and the number of exposed workflows
//   - GET /workflow: exposed workflows with their active session counts
//   - GET /workflow/{name}/session: active sessions of a workflow
//   - DELETE /workflow/{name}/session/{sessionID}: drop a session
//   - GET /event: workflow transitions as Server-Sent Events
//
// The event stream reads from the watermill mirror of the event bus, so
// every subscriber sees the JSON form of an event. It accepts "workflow"
// and "sessionID" query parameters to narrow the stream.
//
// All routes live below Config.BasePath when it is set.
package server
