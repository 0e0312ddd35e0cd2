package middleware

import (
	"context"

	"github.com/dmitrymomot/shopfront/core/flash"
	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/pipeline"
)

type flashKey struct{}

// Flashes is the request view of the session's flash queue. Adding and
// draining both mark the session for saving.
type Flashes struct {
	msgs  *flash.Messages
	touch func()
}

// Add queues msg under kind for the next page.
func (f *Flashes) Add(kind, msg string) {
	if f == nil || f.msgs == nil {
		return
	}
	f.msgs.Add(kind, msg)
	f.touch()
}

// Take drains the queue of kind. Each message is returned at most once.
func (f *Flashes) Take(kind string) []string {
	if f == nil || f.msgs == nil {
		return nil
	}
	msgs := f.msgs.Take(kind)
	if msgs != nil {
		f.touch()
	}
	return msgs
}

// First drains the queue of kind and returns its first message, or "".
func (f *Flashes) First(kind string) string {
	msgs := f.Take(kind)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

// Flash exposes the flash queue stored in the session data through
// FlashFrom. messages points into the session data.
func Flash[C handler.Context, Data any](messages func(*Data) *flash.Messages) pipeline.Stage[C] {
	if messages == nil {
		panic("flash stage: accessor is required")
	}
	return pipeline.Stage[C]{
		Name: StageFlash,
		Enter: func(ctx C) pipeline.Outcome {
			sess, ok := SessionFrom[Data](ctx)
			if !ok {
				return pipeline.Fail(ErrNoSession)
			}
			ctx.SetValue(flashKey{}, &Flashes{
				msgs:  messages(&sess.Data),
				touch: sess.MarkModified,
			})
			return pipeline.Continue()
		},
	}
}

// FlashFrom returns the request flash queue. Without the flash stage it
// returns a queue that drops everything.
func FlashFrom(ctx context.Context) *Flashes {
	if f, ok := handler.Value[*Flashes](ctx, flashKey{}); ok {
		return f
	}
	return &Flashes{}
}
