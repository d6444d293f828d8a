package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultTargetWidth is the width image URLs are rewritten towards.
const DefaultTargetWidth = 1024

var (
	pathSizePattern       = regexp.MustCompile(`/\d+x\d+/`)
	trailingNumberPattern = regexp.MustCompile(`/\d+$`)
	hyphenSizePattern     = regexp.MustCompile(`-\d+x\d+-`)
	underscoreSizePattern = regexp.MustCompile(`_\d+x\d+_`)
	widthParamPattern     = regexp.MustCompile(`([?&](?:w|width)=)\d+`)
	heightParamPattern    = regexp.MustCompile(`([?&](?:h|height)=)\d+`)
)

// Upscale rewrites size tokens embedded in an image URL to a larger target
// (height is width * 0.75). Each pattern is applied independently. The result
// is not checked against the CDN; a URL with no size token comes back unchanged.
func Upscale(u string, width int) string {
	if width <= 0 {
		width = DefaultTargetWidth
	}
	height := int(math.Round(float64(width) * 0.75))
	w, h := strconv.Itoa(width), strconv.Itoa(height)
	size := w + "x" + h

	path, rest := u, ""
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		path, rest = u[:i], u[i:]
	}

	path = pathSizePattern.ReplaceAllLiteralString(path, "/"+size+"/")
	path = trailingNumberPattern.ReplaceAllLiteralString(path, "/"+w)
	path = hyphenSizePattern.ReplaceAllLiteralString(path, "-"+size+"-")
	path = underscoreSizePattern.ReplaceAllLiteralString(path, "_"+size+"_")

	rest = widthParamPattern.ReplaceAllString(rest, "${1}"+w)
	rest = heightParamPattern.ReplaceAllString(rest, "${1}"+h)

	return path + rest
}
