package middleware

import (
	"compress/gzip"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/pipeline"
)

// CompressionConfig configures response compression.
type CompressionConfig struct {
	// MinSize is the smallest body that gets compressed (default: 1024).
	MinSize int `env:"COMPRESSION_MIN_SIZE" envDefault:"1024"`
	// Level is the gzip level (default: gzip.DefaultCompression).
	Level int `env:"COMPRESSION_LEVEL" envDefault:"-1"`
}

// Compression gzips eligible responses for clients that accept it. The
// wrapper is applied when the response is rendered, so the decision is
// made on the actual body size and content type.
func Compression[C handler.Context](cfg CompressionConfig) (pipeline.Stage[C], error) {
	if cfg.MinSize <= 0 {
		cfg.MinSize = gzhttp.DefaultMinSize
	}
	if cfg.Level == 0 {
		cfg.Level = gzip.DefaultCompression
	}

	wrap, err := gzhttp.NewWrapper(
		gzhttp.MinSize(cfg.MinSize),
		gzhttp.CompressionLevel(cfg.Level),
	)
	if err != nil {
		return pipeline.Stage[C]{}, err
	}

	return pipeline.Stage[C]{
		Name: StageCompression,
		Leave: func(_ C, resp handler.Response) (handler.Response, error) {
			return func(w http.ResponseWriter, r *http.Request) error {
				var rerr error
				wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					rerr = resp(w, r)
				})).ServeHTTP(w, r)
				return rerr
			}, nil
		},
	}, nil
}
