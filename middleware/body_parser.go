package middleware

import (
	"net/http"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/upload"
)

// BodyParserConfig configures the urlencoded body parser.
type BodyParserConfig struct {
	MaxBytes int64 `env:"BODY_MAX_BYTES" envDefault:"1048576"`
}

// BodyParser parses urlencoded bodies into r.Form and r.PostForm.
// Malformed or oversized bodies leave whatever was parsed and never fail the
// request. Multipart bodies are left to the file upload stage.
func BodyParser[C handler.Context](cfg BodyParserConfig) pipeline.Stage[C] {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 1 << 20
	}
	return pipeline.Stage[C]{
		Name: StageBodyParser,
		Enter: func(ctx C) pipeline.Outcome {
			r := ctx.Request()
			if upload.IsMultipart(r) {
				return pipeline.Continue()
			}
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(nil, r.Body, cfg.MaxBytes)
			}
			_ = r.ParseForm()
			return pipeline.Continue()
		},
	}
}
