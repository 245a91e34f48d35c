package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidFolder = errors.New("invalid upload folder")

// Folders are the sub-folders the dashboard uploads into.
var Folders = []string{
	"products",
	"combo-products",
	"gift-products",
	"blogs",
	"podcasts",
	"testimonials",
	"banners",
	"slider",
}

const DefaultFolder = "products"

var unsafeName = regexp.MustCompile(`[^a-z0-9_-]+`)

// Uploaded is returned to the dashboard after a successful upload.
type Uploaded struct {
	Hosted
	Kind       Kind   `json:"kind"`
	Compressed bool   `json:"compressed"`
	Warning    string `json:"warning,omitempty"`

	// OptimizedURL is set for images when the host can build delivery URLs.
	OptimizedURL string `json:"optimized_url,omitempty"`
}

type deliveryHost interface {
	CloudName() string
}

type Service struct {
	host       Host
	compressor *Compressor
	limits     Limits
	root       string
	folders    map[string]bool
}

// NewService wires the upload pipeline. host may be nil, in which case
// uploads fail with ErrHostUnavailable.
func NewService(host Host, compressor *Compressor, limits Limits, root string) *Service {
	folders := make(map[string]bool, len(Folders))
	for _, f := range Folders {
		folders[f] = true
	}
	return &Service{
		host:       host,
		compressor: compressor,
		limits:     limits,
		root:       strings.Trim(root, "/"),
		folders:    folders,
	}
}

// Folder resolves a dashboard sub-folder to its full path under the root.
func (s *Service) Folder(sub string) (string, error) {
	sub = strings.Trim(strings.TrimSpace(sub), "/")
	if sub == "" {
		sub = DefaultFolder
	}
	if !s.folders[sub] {
		return "", fmt.Errorf("%w: %q", ErrInvalidFolder, sub)
	}
	if s.root == "" {
		return sub, nil
	}
	return s.root + "/" + sub, nil
}

// Upload validates, compresses and stores a file.
func (s *Service) Upload(ctx context.Context, name string, data []byte, folder string) (*Uploaded, error) {
	if s.host == nil {
		return nil, ErrHostUnavailable
	}
	dest, err := s.Folder(folder)
	if err != nil {
		return nil, err
	}
	in, err := Inspect(data, s.limits)
	if err != nil {
		return nil, err
	}

	f := File{Name: name, MIME: in.MIME, Data: data}
	compressed := false
	if in.Kind == KindImage && s.compressor != nil {
		f, compressed = s.compressor.Compress(f)
	}

	hosted, err := s.host.Upload(ctx, f.Data, UploadParams{
		Folder:   dest,
		PublicID: publicID(f.Name),
		Kind:     in.Kind,
	})
	if err != nil {
		return nil, err
	}
	up := &Uploaded{Hosted: *hosted, Kind: in.Kind, Compressed: compressed, Warning: in.Warning}
	if d, ok := s.host.(deliveryHost); ok && in.Kind == KindImage {
		up.OptimizedURL = OptimizedURL(d.CloudName(), hosted.PublicID, 0, 0, "")
	}
	return up, nil
}

// Destroy removes an asset by public id or delivery URL.
func (s *Service) Destroy(ctx context.Context, ref string, kind Kind) error {
	if s.host == nil {
		return ErrHostUnavailable
	}
	id := ref
	if strings.Contains(ref, "://") {
		id = PublicIDFromURL(ref)
	}
	if id == "" {
		return fmt.Errorf("no public id in %q", ref)
	}
	return s.host.Destroy(ctx, id, kind)
}

func publicID(name string) string {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	base = strings.Trim(unsafeName.ReplaceAllString(strings.ReplaceAll(base, " ", "_"), "-"), "-_")
	if len(base) > 40 {
		base = base[:40]
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if base == "" {
		return suffix
	}
	return base + "_" + suffix
}
