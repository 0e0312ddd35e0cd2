// Package pipeline runs each request through an explicit, ordered list of
// stages. Every stage returns a tagged Outcome (continue, respond, fail), so
// the order in which stages are registered is the only thing deciding what
// sees a request first. Exemptions such as a route handled before CSRF checks
// are plain registration facts that tests can assert with Names.
//
//	p := pipeline.New(
//		pipeline.WithContextFactory(newContext),
//		pipeline.WithFailureHandler(renderErrorPage),
//	)
//	p.Use(middleware.Session[*Context, SessionData](...), middleware.CSRF[*Context, SessionData](...))
//	http.ListenAndServe(":3000", p)
//
// Responses are rendered once, after every entered stage had a chance to
// wrap them in Leave. Failures become responses through the failure handler
// and still travel back through the outer stages, so error pages get the same
// headers, compression and access logging as any other page. A panic in
// Enter or Leave is recovered and handled as a failure of that stage; only a
// panic while rendering goes straight to the error handler.
package pipeline
