package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adamavenir/dispatch/internal/types"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// ErrNotImage is returned when a blob is not a recognized image format.
var ErrNotImage = errors.New("not an image")

// NewAttachment sniffs data and wraps it as an image attachment. Nameless
// blobs get a generated name with the sniffed extension.
func NewAttachment(name string, data []byte) (types.Attachment, error) {
	if len(data) == 0 || !filetype.IsImage(data) {
		if name != "" {
			return types.Attachment{}, fmt.Errorf("%s: %w", name, ErrNotImage)
		}
		return types.Attachment{}, ErrNotImage
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return types.Attachment{}, err
	}
	if name == "" {
		name = "paste-" + uuid.NewString()[:8] + "." + kind.Extension
	}
	return types.Attachment{
		Name:     name,
		MIMEType: kind.MIME.Value,
		Data:     data,
	}, nil
}

// LoadAttachment reads an image file from disk.
func LoadAttachment(path string) (types.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.Attachment{}, err
	}
	if info.IsDir() {
		return types.Attachment{}, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Attachment{}, err
	}
	return NewAttachment(filepath.Base(path), data)
}

// ReadAttachment reads an image from r, such as stdin.
func ReadAttachment(r io.Reader) (types.Attachment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Attachment{}, err
	}
	return NewAttachment("", data)
}

// PastedPath interprets pasted text as a path to an existing file. Terminals
// paste dragged files with escaped spaces, quotes or a file:// scheme.
func PastedPath(text string) (string, bool) {
	value := strings.TrimSpace(text)
	if value == "" || strings.ContainsRune(value, '\n') {
		return "", false
	}
	value = strings.TrimPrefix(value, "file://")
	if len(value) >= 2 && (value[0] == '\'' || value[0] == '"') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	value = strings.ReplaceAll(value, `\ `, " ")
	if strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		value = filepath.Join(home, value[2:])
	}
	if !filepath.IsAbs(value) {
		return "", false
	}
	info, err := os.Stat(value)
	if err != nil || info.IsDir() {
		return "", false
	}
	return value, true
}

// FormatSize renders an attachment size for previews.
func FormatSize(att types.Attachment) string {
	return humanize.Bytes(uint64(att.Size()))
}
