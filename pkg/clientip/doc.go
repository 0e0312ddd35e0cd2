// Package clientip extracts the client IP address from HTTP requests.
//
// Proxy headers are checked in priority order:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry)
//  4. X-Real-IP
//  5. RemoteAddr
//
// Header values are validated with net.ParseIP and normalized; 0.0.0.0 and
// malformed values are skipped. GetIP never fails: when nothing parses it
// returns the raw RemoteAddr.
//
//	ip := clientip.GetIP(r)
package clientip
