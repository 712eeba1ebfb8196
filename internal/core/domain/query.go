package domain

import (
	"fmt"
	"strings"
)

// LLMNotConnectedAnswer is returned when the client disables the language model
const LLMNotConnectedAnswer = "LLM is not connected"

// noRelevantInformation is the phrase the grounded completion emits when the
// context does not cover the query.
const noRelevantInformation = "no relevant information found"

// QueryRequest is a user query with the client's pipeline toggles
type QueryRequest struct {
	Query       string `json:"query"`
	UseVectorDB bool   `json:"useVectorDB"`
	UseLLM      bool   `json:"useLLM"`
}

// Route identifies which branch of the query state machine produced an answer
type Route string

const (
	RouteGreeting    Route = "greeting"
	RouteLLMDisabled Route = "llm_disabled"
	RouteNotFound    Route = "not_found"
	RouteRetrieval   Route = "retrieval"
)

// QueryResult is the outcome of answering a query
type QueryResult struct {
	Answer string `json:"answer"`
	Route  Route  `json:"-"`
	// Context is the document context sent to the completion (retrieval route only)
	Context string `json:"-"`
}

// Role is the author of a chat message
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one entry of a chat completion request
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GreetingPhrases are matched as substrings of the normalized query
var GreetingPhrases = []string{
	"hello",
	"hi",
	"hey",
	"how are you",
	"good morning",
	"good evening",
	"good night",
	"thank you",
	"thanks",
}

// NormalizeQuery trims and lowercases a raw query
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsGreeting reports whether a normalized query contains any greeting phrase
func IsGreeting(query string) bool {
	for _, phrase := range GreetingPhrases {
		if strings.Contains(query, phrase) {
			return true
		}
	}
	return false
}

// NotFoundAnswer renders the fallback answer for a query with no usable context
func NotFoundAnswer(query string) string {
	return fmt.Sprintf("Ooops, Can't find anything related to '%s' in the given PDFs. Wanna try something else?", query)
}

// ReportsNoRelevantInformation reports whether a completion admitted the
// context was insufficient.
func ReportsNoRelevantInformation(answer string) bool {
	return strings.Contains(strings.ToLower(answer), noRelevantInformation)
}
