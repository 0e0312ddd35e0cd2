package middleware

import (
	"context"
	"io"
	"log/slog"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/storage"
	"github.com/dmitrymomot/shopfront/core/upload"
)

type (
	uploadKey        struct{}
	uploadClaimedKey struct{}
)

// FileUploadConfig configures the file upload stage.
type FileUploadConfig struct {
	Storage storage.Storage
	Upload  upload.Config
	Logger  *slog.Logger
	// OnRejected is notified of every dropped file.
	OnRejected func(reason string)
}

// FileUpload processes the single image field of multipart requests and
// stores the outcome for handlers. It never fails the request: a storage
// error is logged and reported to handlers as a rejection.
//
// An accepted file that no handler claimed with ClaimUpload is deleted on
// the way out.
func FileUpload[C handler.Context](cfg FileUploadConfig) pipeline.Stage[C] {
	if cfg.Storage == nil {
		panic("file upload: storage is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return pipeline.Stage[C]{
		Name: StageFileUpload,
		Enter: func(ctx C) pipeline.Outcome {
			r := ctx.Request()
			if !upload.IsMultipart(r) {
				return pipeline.Continue()
			}

			res, err := upload.Parse(ctx, r, cfg.Storage, cfg.Upload)
			if err != nil {
				cfg.Logger.ErrorContext(ctx, "upload could not be stored",
					logger.Component("upload"),
					logger.Error(err),
				)
				res = upload.Rejected{Reason: "file could not be stored"}
			}
			if rej, ok := res.(upload.Rejected); ok && cfg.OnRejected != nil {
				cfg.OnRejected(rej.Reason)
			}
			ctx.SetValue(uploadKey{}, res)
			return pipeline.Continue()
		},
		Leave: func(ctx C, resp handler.Response) (handler.Response, error) {
			accepted, ok := UploadResult(ctx).(upload.Accepted)
			if !ok || UploadClaimed(ctx) {
				return resp, nil
			}
			if err := cfg.Storage.Delete(ctx, accepted.File.RelativePath); err != nil {
				cfg.Logger.WarnContext(ctx, "unclaimed upload could not be removed",
					logger.Component("upload"),
					logger.Key("path", accepted.File.RelativePath),
					logger.Error(err),
				)
			}
			return resp, nil
		},
	}
}

// ClaimUpload keeps the accepted file of the request after it completes.
func ClaimUpload(ctx handler.Context) {
	ctx.SetValue(uploadClaimedKey{}, true)
}

// UploadClaimed reports whether a handler kept the uploaded file.
func UploadClaimed(ctx context.Context) bool {
	claimed, _ := handler.Value[bool](ctx, uploadClaimedKey{})
	return claimed
}

// UploadResult returns the upload outcome of the request, None when the
// request carried no file.
func UploadResult(ctx context.Context) upload.Result {
	if res, ok := handler.Value[upload.Result](ctx, uploadKey{}); ok && res != nil {
		return res
	}
	return upload.None{}
}
