package middleware

// Stage names in the order the application registers them.
const (
	StageSecurityHeaders = "security-headers"
	StageCompression     = "compression"
	StageAccessLog       = "access-log"
	StageBodyParser      = "body-parser"
	StageFileUpload      = "file-upload"
	StageStatic          = "static"
	StageSession         = "session"
	StageFavicon         = "favicon"
	StageFlash           = "flash"
	StageAuthFlag        = "auth-flag"
	StageUser            = "user"
	StageCSRF            = "csrf"
	StageRoutes          = "routes"
	StageNotFound        = "not-found"
)
