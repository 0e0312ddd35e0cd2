// Package router maps method and path to typed handlers.
//
// Route matching is done by chi, so patterns use chi syntax ("/products/{productId}").
// Middleware is typed (handler.Middleware[C]) and chained when a route is
// registered. The router does not serve HTTP on its own: the pipeline calls
// Dispatch from its routes stage, and an unmatched request simply lets the
// pipeline continue to the not-found stage.
//
//	r := router.New[*shop.Context]()
//	r.Get("/", shopCtl.Index)
//	r.Route("/admin", func(r router.Router[*shop.Context]) {
//		r.Use(middleware.RequireAuth[*shop.Context]("/login"))
//		r.Get("/products", adminCtl.Products)
//	})
//
//	resp, ok := r.Dispatch(ctx)
package router
