package submission

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"directory-console/internal/common/errors"
)

// MaxAttachmentSize caps a single uploaded image.
const MaxAttachmentSize = 10 << 20

// Attachment is one file selected for upload.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// NewAttachment sniffs content and accepts images only.
func NewAttachment(filename string, content []byte) (Attachment, error) {
	if len(content) == 0 {
		return Attachment{}, errors.NewAttachmentError(filename, fmt.Errorf("file is empty"))
	}
	if len(content) > MaxAttachmentSize {
		return Attachment{}, errors.NewAttachmentError(filename, fmt.Errorf("file exceeds %d bytes", MaxAttachmentSize))
	}
	contentType := mimetype.Detect(content).String()
	if !strings.HasPrefix(contentType, "image/") {
		return Attachment{}, errors.NewAttachmentError(filename, fmt.Errorf("unsupported content type %s", contentType))
	}
	return Attachment{
		Filename:    filepath.Base(filename),
		ContentType: contentType,
		Content:     content,
	}, nil
}

// LoadAttachment reads an image from disk.
func LoadAttachment(path string) (Attachment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, errors.NewAttachmentError(path, err)
	}
	return NewAttachment(path, content)
}

// LoadAttachments loads every path, stopping at the first bad file.
func LoadAttachments(paths []string) ([]Attachment, error) {
	out := make([]Attachment, 0, len(paths))
	for _, p := range paths {
		a, err := LoadAttachment(p)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
