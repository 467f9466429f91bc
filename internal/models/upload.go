package models

import "time"

// UploadRecord is the description of one object write
type UploadRecord struct {
	DestinationName string `json:"destination_name"`
	Bucket          string `json:"bucket"`
	Folder          string `json:"folder"`
	Payload         []byte `json:"-"`
}

// UploadConfirmation is returned after the payload was stored
type UploadConfirmation struct {
	Provider    string    `json:"provider" example:"s3"`
	Bucket      string    `json:"bucket" example:"sintegra-upload"`
	ObjectPath  string    `json:"object_path" example:"EXTRACT/cnpjs_05_01_2024_09_03_07.txt"`
	Name        string    `json:"name" example:"cnpjs_05_01_2024_09_03_07.txt"`
	Size        int64     `json:"size" example:"45"`
	ContentType string    `json:"content_type" example:"text/plain; charset=utf-8"`
	ETag        string    `json:"etag,omitempty"`
	Checksum    string    `json:"checksum" example:"9f2c4d1e8a7b6c53"`
	UploadedAt  time.Time `json:"uploaded_at" example:"2024-01-05T09:03:07-03:00"`
}
