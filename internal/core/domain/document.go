package domain

import "time"

// Document holds the text extracted from one uploaded file.
// Filenames are not unique, neither across sessions nor within one.
type Document struct {
	Filename   string    `json:"filename"`
	RawText    string    `json:"raw_text"`
	SessionID  string    `json:"session_id"` // Owning session (back-reference)
	UploadedAt time.Time `json:"uploaded_at"`
}

// BelongsTo reports whether the document qualifies for a session's index:
// it must be tagged with the session AND its filename must be owned by it.
func (d *Document) BelongsTo(sessionID string, owned []string) bool {
	if d.SessionID != sessionID {
		return false
	}
	return FilenamePosition(owned, d.Filename) >= 0
}

// Chunk is a bounded slice of a document's text, the unit of embedding and retrieval
type Chunk struct {
	Text      string `json:"text"`
	Filename  string `json:"filename"`
	SessionID string `json:"session_id"`
}

// UploadedFile is a raw file received from a client
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult is returned after an upload batch has been stored
type UploadResult struct {
	SessionID string   `json:"session_id"`
	Filenames []string `json:"filenames"`
	Documents int      `json:"documents"`
}

// ProcessResult is returned after the vector index has been rebuilt
type ProcessResult struct {
	SessionID string `json:"session_id"`
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
}
