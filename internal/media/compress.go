package media

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"
	"math"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const megabyte = 1024 * 1024

// File is an upload held in memory.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Tier applies Value to inputs strictly larger than Above bytes. Tiers are
// checked in order; the first match wins.
type Tier struct {
	Above int64
	Value int
}

// Policy tunes the compressor. Scale caps and qualities are percentages.
type Policy struct {
	ThresholdBytes int64
	TargetBytes    int64
	MaxAttempts    int
	ScaleCaps      []Tier
	Qualities      []Tier
	QualityStep    int
	MinQuality     int
	MaxPixels      int64 // larger images are uploaded as is
}

// DefaultPolicy mirrors the limits the dashboard used for Cloudinary's free
// tier.
func DefaultPolicy() Policy {
	return Policy{
		ThresholdBytes: 5 * megabyte,
		TargetBytes:    8 * megabyte,
		MaxAttempts:    8,
		ScaleCaps: []Tier{
			{Above: 20 * megabyte, Value: 30},
			{Above: 15 * megabyte, Value: 40},
			{Above: 10 * megabyte, Value: 50},
			{Above: 0, Value: 70},
		},
		Qualities: []Tier{
			{Above: 15 * megabyte, Value: 30},
			{Above: 10 * megabyte, Value: 40},
			{Above: 8 * megabyte, Value: 50},
			{Above: 0, Value: 60},
		},
		QualityStep: 10,
		MinQuality:  10,
		MaxPixels:   50_000_000,
	}
}

// NewPolicy returns DefaultPolicy with the configured sizes applied.
// Non-positive arguments keep the defaults.
func NewPolicy(threshold, target int64, attempts int, maxPixels int64) Policy {
	p := DefaultPolicy()
	if threshold > 0 {
		p.ThresholdBytes = threshold
	}
	if target > 0 {
		p.TargetBytes = target
	}
	if attempts > 0 {
		p.MaxAttempts = attempts
	}
	if maxPixels > 0 {
		p.MaxPixels = maxPixels
	}
	return p
}

func pick(tiers []Tier, size int64, fallback int) int {
	for _, t := range tiers {
		if size > t.Above {
			return t.Value
		}
	}
	return fallback
}

type Compressor struct {
	policy Policy
}

func NewCompressor(p Policy) *Compressor {
	return &Compressor{policy: p}
}

// Compress shrinks an oversized image by downscaling and re-encoding it as
// JPEG. It never fails: when the image cannot be decoded, or no attempt
// beats the input size, the original is returned with false.
func (c *Compressor) Compress(f File) (File, bool) {
	p := c.policy
	size := int64(len(f.Data))
	if size <= p.ThresholdBytes {
		return f, false
	}

	// The header alone tells how large the decoded bitmap would be.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		log.Printf("⚠️ compress %s: decode failed, keeping original: %v", f.Name, err)
		return f, false
	}
	if p.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > p.MaxPixels {
		log.Printf("⚠️ compress %s: %dx%d exceeds %d pixels, keeping original", f.Name, cfg.Width, cfg.Height, p.MaxPixels)
		return f, false
	}

	src, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		log.Printf("⚠️ compress %s: decode failed, keeping original: %v", f.Name, err)
		return f, false
	}

	ratio := math.Sqrt(float64(p.TargetBytes) / float64(size))
	if limit := float64(pick(p.ScaleCaps, size, 100)) / 100; ratio > limit {
		ratio = limit
	}
	b := src.Bounds()
	w := int(math.Floor(float64(b.Dx()) * ratio))
	h := int(math.Floor(float64(b.Dy()) * ratio))
	if w < 1 || h < 1 {
		log.Printf("⚠️ compress %s: %dx%d scales to nothing, keeping original", f.Name, b.Dx(), b.Dy())
		return f, false
	}

	// JPEG has no alpha, so transparent areas are flattened onto white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	quality := pick(p.Qualities, size, 60)
	minQuality := p.MinQuality
	if minQuality < 1 {
		minQuality = 1
	}
	step := p.QualityStep
	if step < 1 {
		step = 10
	}

	var best []byte
	for attempt := 1; ; attempt++ {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
			log.Printf("⚠️ compress %s: encode at q%d failed: %v", f.Name, quality, err)
			break
		}
		if best == nil || buf.Len() < len(best) {
			best = buf.Bytes()
		}
		if int64(buf.Len()) <= p.TargetBytes || quality <= minQuality || attempt >= p.MaxAttempts {
			break
		}
		quality -= step
		if quality < minQuality {
			quality = minQuality
		}
	}

	if best == nil || int64(len(best)) >= size {
		return f, false
	}

	log.Printf("🗜️ compressed %s: %s → %s", f.Name, megabytes(size), megabytes(int64(len(best))))
	return File{Name: jpegName(f.Name), MIME: "image/jpeg", Data: best}, true
}

func jpegName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "image"
	}
	return base + ".jpg"
}
