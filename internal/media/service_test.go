package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	uploads   []UploadParams
	sizes     []int
	destroyed []string
	err       error
}

func (f *fakeHost) Upload(_ context.Context, data []byte, p UploadParams) (*Hosted, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploads = append(f.uploads, p)
	f.sizes = append(f.sizes, len(data))
	return &Hosted{
		SecureURL: "https://res.cloudinary.com/demo/" + string(p.Kind) + "/upload/v1/" + p.Folder + "/" + p.PublicID,
		PublicID:  p.Folder + "/" + p.PublicID,
		Bytes:     len(data),
	}, nil
}

func (f *fakeHost) Destroy(_ context.Context, publicID string, _ Kind) error {
	f.destroyed = append(f.destroyed, publicID)
	return f.err
}

type namedHost struct{ fakeHost }

func (namedHost) CloudName() string { return "demo" }

func newTestService(host Host) *Service {
	limits := Limits{ImageMaxBytes: 5 << 20, ImageWarnBytes: 4 << 20, VideoMaxBytes: 5 << 20}
	return NewService(host, NewCompressor(testPolicy()), limits, "dev-admin")
}

func TestService_Folder(t *testing.T) {
	s := newTestService(nil)

	got, err := s.Folder("")
	require.NoError(t, err)
	assert.Equal(t, "dev-admin/products", got)

	got, err = s.Folder("/banners/")
	require.NoError(t, err)
	assert.Equal(t, "dev-admin/banners", got)

	_, err = s.Folder("../secrets")
	assert.ErrorIs(t, err, ErrInvalidFolder)
}

func TestService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("small image uploads as is", func(t *testing.T) {
		host := &fakeHost{}
		data := noisyPNG(t, 8, 8, 1)

		up, err := newTestService(host).Upload(ctx, "Cold Pressed Oil.png", data, "products")
		require.NoError(t, err)
		assert.False(t, up.Compressed)
		assert.Equal(t, KindImage, up.Kind)
		require.Len(t, host.uploads, 1)
		assert.Equal(t, "dev-admin/products", host.uploads[0].Folder)
		assert.True(t, strings.HasPrefix(host.uploads[0].PublicID, "cold_pressed_oil_"))
		assert.Equal(t, len(data), host.sizes[0])
	})

	t.Run("oversized image is compressed first", func(t *testing.T) {
		host := &fakeHost{}
		data := noisyPNG(t, 400, 400, 9)

		up, err := newTestService(host).Upload(ctx, "hero.png", data, "banners")
		require.NoError(t, err)
		assert.True(t, up.Compressed)
		assert.Less(t, host.sizes[0], len(data))
	})

	t.Run("delivery url when the host has a cloud name", func(t *testing.T) {
		host := &namedHost{}
		up, err := newTestService(host).Upload(ctx, "oil.png", noisyPNG(t, 4, 4, 2), "")
		require.NoError(t, err)
		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/q_auto:good/"+up.PublicID, up.OptimizedURL)

		up, err = newTestService(&fakeHost{}).Upload(ctx, "oil.png", noisyPNG(t, 4, 4, 2), "")
		require.NoError(t, err)
		assert.Empty(t, up.OptimizedURL)
	})

	t.Run("host missing", func(t *testing.T) {
		_, err := newTestService(nil).Upload(ctx, "a.png", noisyPNG(t, 2, 2, 1), "")
		assert.ErrorIs(t, err, ErrHostUnavailable)
	})

	t.Run("bad folder", func(t *testing.T) {
		_, err := newTestService(&fakeHost{}).Upload(ctx, "a.png", noisyPNG(t, 2, 2, 1), "etc")
		assert.ErrorIs(t, err, ErrInvalidFolder)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := newTestService(&fakeHost{}).Upload(ctx, "a.txt", []byte("hello there"), "")
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("host error surfaces", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := newTestService(&fakeHost{err: boom}).Upload(ctx, "a.png", noisyPNG(t, 2, 2, 1), "")
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_Destroy(t *testing.T) {
	host := &fakeHost{}
	s := newTestService(host)

	require.NoError(t, s.Destroy(context.Background(), "https://res.cloudinary.com/demo/image/upload/v9/dev-admin/banners/a.jpg", KindImage))
	require.NoError(t, s.Destroy(context.Background(), "dev-admin/banners/b", KindImage))
	assert.Equal(t, []string{"dev-admin/banners/a", "dev-admin/banners/b"}, host.destroyed)

	assert.Error(t, s.Destroy(context.Background(), "", KindImage))
}

func TestPublicID(t *testing.T) {
	id := publicID("../My Photo (1).JPG")
	assert.Regexp(t, `^my_photo_-1_[0-9a-f]{12}$`, id)
	assert.Regexp(t, `^[0-9a-f]{12}$`, publicID(""))
}
