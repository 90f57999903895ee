package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the parent of every input validation error
var ErrValidation = errors.New("validation error")

// ErrInvalidChunkIndex is an error thrown when a chunk index is outside the session plan
var ErrInvalidChunkIndex = fmt.Errorf("%w: invalid chunk index", ErrValidation)

// ErrInvalidChunkSize is an error thrown when a chunk length does not match the session plan
var ErrInvalidChunkSize = fmt.Errorf("%w: invalid chunk size", ErrValidation)

// ErrEmptyFile is an error thrown when a declared or received file is empty
var ErrEmptyFile = fmt.Errorf("%w: empty file", ErrValidation)

// ErrInvalidFileName is an error thrown when file name is missing
var ErrInvalidFileName = fmt.Errorf("%w: invalid file name", ErrValidation)

// ErrInvalidCategory is an error thrown when document category is missing
var ErrInvalidCategory = fmt.Errorf("%w: invalid document category", ErrValidation)

// ErrInvalidPassport is an error thrown when passport fields are inconsistent
var ErrInvalidPassport = fmt.Errorf("%w: invalid passport", ErrValidation)

// ErrFileTooLarge is an error thrown when file size exceeds MaxFileSize
var ErrFileTooLarge = errors.New("file too large")

// ErrSessionNotFound is an error thrown when session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrDocumentNotFound is an error thrown when document is not found
var ErrDocumentNotFound = errors.New("document not found")

// ErrPassportNotFound is an error thrown when passport is not found
var ErrPassportNotFound = errors.New("passport not found")

// ErrInvalidSessionState is an error thrown when a session is not in the state an operation needs
var ErrInvalidSessionState = errors.New("invalid session state")

// ErrSessionExpired is an error thrown when a session is past its expiry time
var ErrSessionExpired = errors.New("session expired")

// ErrIncompleteUpload is an error thrown when completion is requested before every chunk is stored
var ErrIncompleteUpload = errors.New("incomplete upload")

// ErrStorage is an error thrown when the object store fails
var ErrStorage = errors.New("storage error")

// ErrInvalidStorageURL is an error thrown when a storage url does not carry an object key
var ErrInvalidStorageURL = errors.New("invalid storage url")
