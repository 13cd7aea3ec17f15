package models

import "time"

type Attachment struct {
	ID         string    `json:"id"`
	NoteID     string    `json:"noteId"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type AttachmentInput struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// AttachmentUpload is the created record plus a presigned PUT URL the body
// must be uploaded to.
type AttachmentUpload struct {
	Attachment *Attachment `json:"attachment"`
	UploadURL  string      `json:"uploadUrl"`
}
