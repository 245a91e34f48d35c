package media

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrEmptyFile       = errors.New("empty file")
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Limits caps upload sizes per kind. Images above WarnBytes are accepted but
// flagged.
type Limits struct {
	ImageMaxBytes  int64
	ImageWarnBytes int64
	VideoMaxBytes  int64
}

// Inspection is what Inspect learned about an upload.
type Inspection struct {
	Kind    Kind
	MIME    string
	Ext     string
	Size    int64
	Warning string
}

// Inspect sniffs the content type and checks it against the limits. The
// client-declared type is ignored.
func Inspect(data []byte, limits Limits) (*Inspection, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	mt := mimetype.Detect(data)
	mime := strings.ToLower(strings.TrimSpace(strings.SplitN(mt.String(), ";", 2)[0]))
	kind, ok := classify(mime)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}

	size := int64(len(data))
	in := &Inspection{Kind: kind, MIME: mime, Ext: mt.Extension(), Size: size}

	switch kind {
	case KindImage:
		if limits.ImageMaxBytes > 0 && size > limits.ImageMaxBytes {
			return nil, fmt.Errorf("%w: image is %s, the limit is %s", ErrTooLarge, megabytes(size), megabytes(limits.ImageMaxBytes))
		}
		if limits.ImageWarnBytes > 0 && size > limits.ImageWarnBytes {
			in.Warning = fmt.Sprintf("large file detected (%s), it will be compressed before upload", megabytes(size))
		}
	case KindVideo:
		if limits.VideoMaxBytes > 0 && size > limits.VideoMaxBytes {
			return nil, fmt.Errorf("%w: video is %s, the limit is %s", ErrTooLarge, megabytes(size), megabytes(limits.VideoMaxBytes))
		}
	}
	return in, nil
}

func classify(mime string) (Kind, bool) {
	switch {
	case imageTypes[mime]:
		return KindImage, true
	case strings.HasPrefix(mime, "video/"):
		return KindVideo, true
	}
	return "", false
}

func megabytes(n int64) string {
	return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
}
