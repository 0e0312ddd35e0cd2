package pipeline

import "github.com/dmitrymomot/shopfront/core/handler"

// Kind tags what a stage decided to do with the request.
type Kind uint8

const (
	// KindContinue passes control to the next stage.
	KindContinue Kind = iota
	// KindRespond terminates the chain with a response.
	KindRespond
	// KindFail terminates the chain with an error for the failure handler.
	KindFail
)

func (k Kind) String() string {
	switch k {
	case KindContinue:
		return "continue"
	case KindRespond:
		return "respond"
	case KindFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a stage's Enter step.
type Outcome struct {
	kind Kind
	resp handler.Response
	err  error
}

// Continue lets the request move on to the next stage.
func Continue() Outcome {
	return Outcome{kind: KindContinue}
}

// Respond stops the chain and answers with resp.
func Respond(resp handler.Response) Outcome {
	return Outcome{kind: KindRespond, resp: resp}
}

// Fail stops the chain and hands err to the failure handler.
func Fail(err error) Outcome {
	return Outcome{kind: KindFail, err: err}
}

// Kind reports which variant the outcome holds.
func (o Outcome) Kind() Kind { return o.kind }

// Response returns the response of a KindRespond outcome.
func (o Outcome) Response() handler.Response { return o.resp }

// Err returns the error of a KindFail outcome.
func (o Outcome) Err() error { return o.err }
