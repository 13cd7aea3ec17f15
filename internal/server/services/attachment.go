package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/storage"
)

// MaxAttachmentSize caps what a client may announce for upload.
const MaxAttachmentSize = 25 << 20

// AttachmentService records attachment metadata and hands out presigned
// URLs; the bytes go straight between the client and object storage.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   storage.Presigner
}

func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, p storage.Presigner) *AttachmentService {
	return &AttachmentService{db: db, repomanager: m, presigner: p}
}

// Add records a new attachment on an active owned note and returns the URL
// the client must PUT the file to.
func (s *AttachmentService) Add(ctx context.Context, userID, noteID string, in models.AttachmentInput) (*models.AttachmentUpload, error) {
	if !validID(noteID) {
		return nil, ErrNoteNotFound
	}

	v := &common.ValidationError{}
	in.FileName = strings.TrimSpace(in.FileName)
	if in.FileName == "" {
		v.Add("fileName", "File name is required")
	}
	if in.FileSize < 0 || in.FileSize > MaxAttachmentSize {
		v.Add("fileSize", "File size is out of range")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Notes(s.db).GetActive(ctx, userID, noteID); err != nil {
		return nil, notFound(err)
	}

	key := storage.NewStorageKey(noteID)
	url, err := s.presigner.PresignPut(ctx, key, in.FileType)
	if err != nil {
		return nil, err
	}

	a, err := s.repomanager.Attachments(s.db).Create(ctx, &models.Attachment{
		NoteID:     noteID,
		FileName:   in.FileName,
		FileType:   in.FileType,
		FileSize:   in.FileSize,
		StorageKey: key,
	})
	if err != nil {
		return nil, err
	}
	return &models.AttachmentUpload{Attachment: a, UploadURL: url}, nil
}

// DownloadURL returns a presigned GET for an attachment of an active owned note.
func (s *AttachmentService) DownloadURL(ctx context.Context, userID, noteID, attachmentID string) (string, error) {
	if !validID(noteID) || !validID(attachmentID) {
		return "", common.ErrorNotFound
	}
	if _, err := s.repomanager.Notes(s.db).GetActive(ctx, userID, noteID); err != nil {
		return "", notFound(err)
	}
	a, err := s.repomanager.Attachments(s.db).Get(ctx, noteID, attachmentID)
	if err != nil {
		return "", err
	}
	return s.presigner.PresignGet(ctx, a.StorageKey)
}
