package normalizer

import (
	"sort"
	"strings"
)

// maxDeepSearchDepth bounds the last-resort URL search over an image object.
const maxDeepSearchDepth = 4

// Keyed variant names in preference order.
var variantKeys = []string{"large", "xlarge", "hero", "cover", "main", "medium", "small", "thumbnail"}

// ImageSource records how a listing's image URL was found.
type ImageSource interface {
	imageSource()
}

// VariantArea is the largest entry of a "variants" array.
type VariantArea struct {
	URL string
}

// KeyedVariant is the first present entry of a keyed "variants" object.
type KeyedVariant struct {
	Key string
	URL string
}

// PhotoVersions is the largest entry of a "photoVersions" array.
type PhotoVersions struct {
	URL string
}

// DirectURL is a plain url/imageUrl field, after the upscale rewrite.
type DirectURL struct {
	Original string
	URL      string
}

// DeepSearch is a URL found by the bounded search over the image object.
type DeepSearch struct {
	Path     string
	Original string
	URL      string
}

// NoImage means no URL could be found.
type NoImage struct{}

func (VariantArea) imageSource()   {}
func (KeyedVariant) imageSource()  {}
func (PhotoVersions) imageSource() {}
func (DirectURL) imageSource()     {}
func (DeepSearch) imageSource()    {}
func (NoImage) imageSource()       {}

// ImageURL returns the resolved URL, or nil for NoImage.
func ImageURL(src ImageSource) *string {
	var u string
	switch s := src.(type) {
	case VariantArea:
		u = s.URL
	case KeyedVariant:
		u = s.URL
	case PhotoVersions:
		u = s.URL
	case DirectURL:
		u = s.URL
	case DeepSearch:
		u = s.URL
	default:
		return nil
	}
	return &u
}

// ResolveImage walks the images list in fixed priority order and stops at the first hit.
func ResolveImage(images []any, targetWidth int) ImageSource {
	img := pickImage(images)
	if img == nil {
		return NoImage{}
	}

	switch variants := img["variants"].(type) {
	case []any:
		if u, ok := largestByArea(variants); ok {
			return VariantArea{URL: u}
		}
	case map[string]any:
		for _, key := range variantKeys {
			if u := variantURL(variants[key]); u != "" {
				return KeyedVariant{Key: key, URL: u}
			}
		}
	}

	if u, ok := largestByArea(array(img["photoVersions"])); ok {
		return PhotoVersions{URL: u}
	}

	for _, key := range []string{"url", "imageUrl"} {
		if u := strings.TrimSpace(str(img, key)); u != "" {
			return DirectURL{Original: u, URL: Upscale(u, targetWidth)}
		}
	}

	if path, u, ok := deepFindURL(img, "", 0); ok {
		return DeepSearch{Path: path, Original: u, URL: Upscale(u, targetWidth)}
	}

	return NoImage{}
}

// pickImage returns the image flagged as cover (isCover or cover), else the first image object.
func pickImage(images []any) map[string]any {
	var first map[string]any
	for _, item := range images {
		img := object(item)
		if img == nil {
			continue
		}
		if truthy(img["isCover"]) || truthy(img["cover"]) {
			return img
		}
		if first == nil {
			first = img
		}
	}
	return first
}

// largestByArea scans {url, width, height} entries for the biggest width*height.
// Exact ties go to the later entry. Entries without a URL are ignored.
func largestByArea(entries []any) (string, bool) {
	best := ""
	bestArea := -1.0
	for _, item := range entries {
		entry := object(item)
		u := strings.TrimSpace(str(entry, "url"))
		if u == "" {
			continue
		}
		w, _ := number(entry["width"])
		h, _ := number(entry["height"])
		if area := w * h; area >= bestArea {
			best, bestArea = u, area
		}
	}
	return best, best != ""
}

func variantURL(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		return strings.TrimSpace(str(val, "url"))
	}
	return ""
}

// deepFindURL looks for any non-empty string field whose key contains "url".
// Keys are visited in sorted order; arrays contribute their first element only.
func deepFindURL(m map[string]any, path string, depth int) (string, string, bool) {
	if depth >= maxDeepSearchDepth {
		return "", "", false
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p := joinPath(path, k)
		isURLKey := strings.Contains(strings.ToLower(k), "url")

		switch v := m[k].(type) {
		case string:
			if isURLKey && strings.TrimSpace(v) != "" {
				return p, strings.TrimSpace(v), true
			}
		case map[string]any:
			if fp, u, ok := deepFindURL(v, p, depth+1); ok {
				return fp, u, true
			}
		case []any:
			if len(v) == 0 {
				continue
			}
			switch first := v[0].(type) {
			case string:
				if isURLKey && strings.TrimSpace(first) != "" {
					return p + "[0]", strings.TrimSpace(first), true
				}
			case map[string]any:
				if fp, u, ok := deepFindURL(first, p+"[0]", depth+1); ok {
					return fp, u, true
				}
			}
		}
	}
	return "", "", false
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
