package services

import (
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// SystemInstruction constrains the completion to the supplied context
const SystemInstruction = "Answer only based on the provided document context. If the context is insufficient, say 'No relevant information found in the PDFs.'"

const promptPreamble = "You are an assistant that answers questions strictly based on the provided document context. " +
	"If the context doesn’t contain relevant information, do not generate an answer from general knowledge. "

// DocumentContext joins chunk texts with newlines, in order
func DocumentContext(chunks []domain.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n")
}

// FormatHistory renders the last n exchanges as "Q: ...\nA: ..." lines
func FormatHistory(history []domain.Exchange, n int) string {
	recent := domain.RecentExchanges(history, n)
	lines := make([]string, len(recent))
	for i, ex := range recent {
		lines[i] = "Q: " + ex.Query + "\nA: " + ex.Answer
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt combines the preamble, recent history, document context and query
func BuildPrompt(history []domain.Exchange, context, query string) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString("Chat History:\n")
	sb.WriteString(FormatHistory(history, domain.HistoryWindow))
	sb.WriteString("\n\nDocument Context:\n")
	sb.WriteString(context)
	sb.WriteString("\n\nQuery: ")
	sb.WriteString(query)
	return sb.String()
}

// retrievalMessages builds the grounded completion request
func retrievalMessages(history []domain.Exchange, context, query string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: SystemInstruction},
		{Role: domain.RoleUser, Content: BuildPrompt(history, context, query)},
	}
}

// greetingMessages sends the query alone, without context
func greetingMessages(query string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleUser, Content: query},
	}
}
