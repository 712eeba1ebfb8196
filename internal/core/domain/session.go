package domain

import "github.com/google/uuid"

// HistoryWindow is the number of most recent exchanges used to build a prompt
const HistoryWindow = 3

// Session scopes one user's uploads and chat history.
// Sessions are created lazily and never evicted.
type Session struct {
	ID             string     `json:"id"`
	OwnedFilenames []string   `json:"owned_filenames"` // Upload order, duplicates kept
	History        []Exchange `json:"history"`
}

// Exchange is one answered query in a session's history
type Exchange struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// NewSessionID generates an opaque session identifier
func NewSessionID() string {
	return uuid.New().String()
}

// FilenamePosition returns the index of the first occurrence of filename
// in owned, or -1 when it is absent.
func FilenamePosition(owned []string, filename string) int {
	for i, name := range owned {
		if name == filename {
			return i
		}
	}
	return -1
}

// RecentExchanges returns at most the last n exchanges, oldest first
func RecentExchanges(history []Exchange, n int) []Exchange {
	if n <= 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
