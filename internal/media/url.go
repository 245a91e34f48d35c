package media

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	versionSegment = regexp.MustCompile(`^v\d+$`)
	transformParam = regexp.MustCompile(`^(a|ar|b|bo|c|co|dpr|e|f|fl|g|h|l|o|q|r|t|w|x|y|z)_`)
)

func isTransformation(segment string) bool {
	for _, part := range strings.Split(segment, ",") {
		if !transformParam.MatchString(part) {
			return false
		}
	}
	return true
}

// PublicIDFromURL recovers the public id of a Cloudinary delivery URL,
// folders included and extension removed. Transformation and version
// segments are skipped.
func PublicIDFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Path == "" {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	start := -1
	for i, s := range segments {
		if s == "upload" {
			start = i + 1
			break
		}
	}
	if start < 0 {
		last := segments[len(segments)-1]
		return strings.TrimSuffix(last, path.Ext(last))
	}

	rest := segments[start:]
	for len(rest) > 1 && (isTransformation(rest[0]) || versionSegment.MatchString(rest[0])) {
		versioned := versionSegment.MatchString(rest[0])
		rest = rest[1:]
		if versioned {
			break
		}
	}
	id := strings.Join(rest, "/")
	return strings.TrimSuffix(id, path.Ext(id))
}

// OptimizedURL builds a delivery URL with quality and size transformations.
// A width and height together crop to fill; either alone scales.
func OptimizedURL(cloudName, publicID string, width, height int, quality string) string {
	if quality == "" {
		quality = "auto:good"
	}
	transformation := "q_" + quality
	switch {
	case width > 0 && height > 0:
		transformation += fmt.Sprintf(",w_%d,h_%d,c_fill", width, height)
	case width > 0:
		transformation += fmt.Sprintf(",w_%d,c_scale", width)
	case height > 0:
		transformation += fmt.Sprintf(",h_%d,c_scale", height)
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s/%s", cloudName, transformation, publicID)
}
