// Package binder maps request data onto tagged structs.
//
// Form reads `form:"name"` fields from the body, Query reads `query:"name"`
// fields from the URL and Path reads `path:"name"` fields through a route
// param extractor such as router.URLParam. Fields without the binder's tag,
// or tagged "-", are skipped. Supported field types are string, bool and
// the signed integers; bools also accept on/off and yes/no.
//
//	type productRef struct {
//		ProductID string `form:"productId" path:"productId"`
//	}
//
//	var ref productRef
//	if err := binder.Path(router.URLParam)(r, &ref); err != nil {
//		return response.Error(response.ErrBadRequest.WithError(err))
//	}
//
// Failures wrap ErrFailedToParseForm, ErrFailedToParseQuery,
// ErrFailedToParsePath, ErrUnsupportedMediaType or ErrMissingContentType.
package binder
