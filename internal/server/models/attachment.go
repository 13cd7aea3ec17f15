package models

import "time"

// Attachment is file metadata for a note; the bytes live in object storage
// under StorageKey.
type Attachment struct {
	ID         string    `json:"id"`
	NoteID     string    `json:"noteId"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	StorageKey string    `json:"-"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// AttachmentInput is what a client announces before uploading a file.
type AttachmentInput struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// AttachmentUpload pairs a freshly recorded attachment with the presigned
// URL the client must PUT the file to.
type AttachmentUpload struct {
	Attachment *Attachment `json:"attachment"`
	UploadURL  string      `json:"uploadUrl"`
}
