package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionRequired indicates the request carries no session
	ErrSessionRequired = errors.New("no session found")

	// ErrEmptyQuery indicates the query is blank after normalization
	ErrEmptyQuery = errors.New("query is required")

	// ErrNoDocuments indicates the document store holds no documents at all
	ErrNoDocuments = errors.New("no documents to process")

	// ErrDimensionMismatch indicates a vector does not match the index dimension
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbedding indicates the embedding gateway failed
	ErrEmbedding = errors.New("embedding failed")

	// ErrCompletion indicates the completion gateway failed
	ErrCompletion = errors.New("completion failed")

	// ErrProcessing indicates an index build was aborted
	ErrProcessing = errors.New("processing failed")

	// ErrTimeout indicates an external call exceeded its deadline
	ErrTimeout = errors.New("gateway timeout")

	// ErrExtraction indicates text could not be extracted from an upload
	ErrExtraction = errors.New("text extraction failed")

	// ErrUnsupportedType indicates no extractor handles the upload's MIME type
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrTokenExpired indicates the session token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the session token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates the AI service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
