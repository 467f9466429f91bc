package services

import "errors"

// Pipeline errors returned by UploadService
var (
	ErrAlreadyUploaded  = errors.New("file already uploaded in this cycle, reset the session first")
	ErrNothingToUpload  = errors.New("no validated file pending confirmation")
	ErrValidationFailed = errors.New("file contains invalid CNPJ lines")
	ErrEmptyFile        = errors.New("file is empty")
	ErrUnsupportedFile  = errors.New("unsupported file extension")
	ErrFileTooLarge     = errors.New("file exceeds the maximum upload size")
)
