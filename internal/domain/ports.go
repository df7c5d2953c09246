package domain

import "context"

// RateSource reads a rate sheet into memory.
type RateSource interface {
	Load(path string) (RateTable, error)
}

// ChatModel is the remote language-model collaborator. Implementations send one
// request and return the generated text verbatim.
type ChatModel interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	Model   string
	System  string // persona / system instruction, optional
	History []Turn // prior turns replayed as the model's own history, optional
	Prompt  string
}
