package ai

import "github.com/nadhirah/mindcare/backend/internal/model/chat"

// DefaultWindowTurns bounds how many prior turns enter a prompt: the last
// three user/assistant pairs.
const DefaultWindowTurns = 6

// Window returns the trailing k turns of history, preserving order. It never
// copies more than it must and has no side effects.
func Window(turns []chat.Message, k int) []chat.Message {
	if k <= 0 || len(turns) == 0 {
		return nil
	}
	if len(turns) <= k {
		return turns
	}
	return turns[len(turns)-k:]
}
