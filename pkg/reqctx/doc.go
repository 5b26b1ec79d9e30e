// Package reqctx carries per-request values (metadata, auth claims,
// trace info) through context.Context without import cycles between
// the HTTP layer and services.
package reqctx
