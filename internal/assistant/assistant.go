// Package assistant is the thin pass-through to the external conversational
// service backing the analytics dashboard chat.
package assistant

import "context"

// FallbackReply is shown inline in the transcript whenever the external
// service fails; send errors never surface as a crash or a 5xx.
const FallbackReply = "Sorry, I couldn't process that right now. Please try again in a moment."

// Session is one user's running conversation.
type Session interface {
	Send(ctx context.Context, text string) (string, error)
}

// Factory opens conversations. condition is the user's current condition
// from their medical history, injected as context when the session starts.
type Factory interface {
	NewSession(ctx context.Context, condition string) (Session, error)
}
