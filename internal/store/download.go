package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// DownloadAttachment fetches attachment content and saves it under destDir
// with the attachment's file name, returning the final path. Content is
// written to a transient file first and renamed into place on success;
// the transient file is always removed on failure so no partial download
// is left behind. Failures propagate to the caller.
func (s *Store) DownloadAttachment(ctx context.Context, attachment domain.Attachment, destDir string) (string, error) {
	data, _, err := s.api.DownloadAttachment(ctx, attachment.ID)
	if err != nil {
		return "", err
	}

	name := attachment.FileName
	if name == "" {
		name = "arquivo"
	}

	tmp := filepath.Join(destDir, "."+uuid.NewString()+".part")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", err
	}

	final := filepath.Join(destDir, name)
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return final, nil
}
