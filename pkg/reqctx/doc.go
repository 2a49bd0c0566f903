// Package reqctx provides centralized request context management.
//
// HTTP middleware stores request metadata and the caller's session here;
// services and the upstream client read them back without depending on the
// transport.
//
// # Usage
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: id})
//	ctx = reqctx.WithSession(ctx, reqctx.NewSession(token))
//
//	token := reqctx.TokenFromContext(ctx)
//
// # Contracts
//
//   - RequestMeta is always set by HTTP middleware for all requests
//   - Session is set only when the request carries an Authorization token
package reqctx
