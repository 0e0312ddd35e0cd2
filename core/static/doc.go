// Package static serves files from disk directories mounted under URL
// prefixes.
//
// A Dir only answers GET and HEAD requests for files that exist. Lookup
// reports misses instead of rendering them, which lets a pipeline stage
// pass the request on:
//
//	public := static.MustDir("/", "public")
//	if name, ok := public.Lookup(r); ok {
//		return public.Serve(name)
//	}
//
// Directory listings are never rendered. A directory is served only through
// its index.html.
package static
