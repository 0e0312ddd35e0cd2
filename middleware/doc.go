// Package middleware provides the request pipeline stages and the typed
// router middleware of the shop.
//
// Stages are pipeline.Stage values. The application registers them in a
// fixed order:
//
//	security-headers, compression, access-log, body-parser, file-upload,
//	static, session, favicon, flash, auth-flag, user, create-order, csrf,
//	routes, not-found
//
// Outer stages (security headers, compression, access log) do their work in
// Leave, wrapping the final response so error pages get the same treatment
// as regular pages. The session stage persists modified sessions in Leave.
// The file-upload stage removes a stored file in Leave unless a handler kept
// it with ClaimUpload.
//
//	p := pipeline.New(pipeline.WithContextFactory(newContext))
//	p.Use(
//		middleware.SecurityHeaders[*Context](),
//		middleware.Session[*Context](middleware.SessionConfig[Data]{Transport: transport}),
//		middleware.CSRF[*Context](middleware.CSRFConfig[Data]{Secret: secretOf}),
//		middleware.Routes(r),
//		middleware.NotFound(notFound),
//	)
//
// Handlers reach request state through the accessors: SessionFrom,
// FlashFrom, UserFrom, UploadResult, GetRequestID and GetLocals.
//
// RequireAuth and RateLimit are handler.Middleware values for router groups.
package middleware
