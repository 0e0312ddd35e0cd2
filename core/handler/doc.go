// Package handler defines the request abstractions shared by every layer of
// the shop: a Context contract, lazily rendered Responses, typed handlers,
// middleware and error handlers.
//
//	func showProduct(ctx *shop.Context) handler.Response {
//		p, err := products.ByID(ctx, ctx.Param("productId"))
//		if err != nil {
//			return response.Error(err)
//		}
//		return response.TemplateName(views, "product-detail", p)
//	}
//
// Handlers never write to the ResponseWriter directly. They return a Response
// which the pipeline renders once all stages have wrapped it.
package handler
