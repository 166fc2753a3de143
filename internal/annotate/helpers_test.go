package annotate

import (
	"context"

	"launchscanner/internal/ports"
)

// fakeChat scripts the chat client and counts calls so tests can assert the
// service is never touched for gated or empty records.
type fakeChat struct {
	response string
	err      error
	calls    int
	lastReq  ports.ChatRequest
}

func (f *fakeChat) Complete(_ context.Context, req ports.ChatRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
