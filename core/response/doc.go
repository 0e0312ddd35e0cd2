// Package response builds handler.Response values: plain text and HTML
// bodies, html/template pages, redirects and errors.
//
//	func index(ctx *shop.Context) handler.Response {
//		return response.TemplateName(views, "index.html", data)
//	}
//
// Errors are typed as HTTPError so the error sink can pick a status without
// leaking internals. AsHTTPError classifies arbitrary errors:
//
//	response.AsHTTPError(response.ErrForbidden).Status // 403
//	response.AsHTTPError(io.EOF).Status                // 500
package response
