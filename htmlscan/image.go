package htmlscan

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

// ImageInspector is the external image-recognizer collaborator of spec
// §1(d)/§6: inspect(bytes) -> ImageMeta | none. DefaultImageInspector
// backs it with the stdlib image package (gif/jpeg/png registered via
// blank import, matching the teacher's oms.go pattern) plus
// golang.org/x/image/webp for WebP, which the stdlib does not cover.
type ImageInspector interface {
	Inspect(data []byte) (*ImageMeta, bool)
}

type stdlibImageInspector struct{}

func (stdlibImageInspector) Inspect(data []byte) (*ImageMeta, bool) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	return &ImageMeta{Type: format, Width: cfg.Width, Height: cfg.Height}, true
}

// DefaultImageInspector is used by Process when ProcessOptions.ImageInspector
// is nil.
var DefaultImageInspector ImageInspector = stdlibImageInspector{}

// dataImagePrefix matches "data:image/<type>;base64," case-insensitively
// and reports the start of the base64 payload.
func dataImagePrefix(src string) (payloadStart int, ok bool) {
	lower := strings.ToLower(src)
	if !strings.HasPrefix(lower, "data:image/") {
		return 0, false
	}
	idx := strings.Index(lower, ";base64,")
	if idx < 0 {
		return 0, false
	}
	return idx + len(";base64,"), true
}

// BuildImage implements spec §4.4's "<img> specifics": classify src as
// cid: (embedded message part reference), data:image/...;base64,... (decode
// and hand to the inspector), or external (run through the URL pipeline
// and inserted into the URL set). width/height are read directly from the
// tag's attributes, falling back to a scan of style for height/width
// followed by a digit run.
func BuildImage(tag *TagNode, doc *ContentDescriptor, urlSet URLSet, inspector ImageInspector) *Image {
	src, _ := tag.Parameters.Get(ComponentHref)
	img := &Image{Tag: tag, Src: src}

	switch {
	case strings.HasPrefix(strings.ToLower(src), "cid:"):
		img.Flags |= ImageEmbedded
	case isDataImage(src):
		img.Flags |= ImageData
		doc.Flags |= FlagHasDataURLs
		if payloadStart, ok := dataImagePrefix(src); ok {
			if decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(src[payloadStart:])); err == nil {
				if inspector == nil {
					inspector = DefaultImageInspector
				}
				if meta, ok := inspector.Inspect(decoded); ok {
					img.EmbeddedImage = meta
					if img.Width == 0 {
						img.Width = meta.Width
					}
					if img.Height == 0 {
						img.Height = meta.Height
					}
				}
			}
		}
	case src != "":
		img.Flags |= ImageExternal
		if resolved, ok := ResolveHref([]byte(src), doc, HrefMode); ok {
			if urlSet != nil {
				resolved = urlSet.AddOrReturn(resolved)
			}
			img.URL = resolved
		}
	}

	if w, ok := tag.Parameters.Get(ComponentWidth); ok {
		if n, ok := parseDimension(w); ok {
			img.Width = n
		}
	}
	if h, ok := tag.Parameters.Get(ComponentHeight); ok {
		if n, ok := parseDimension(h); ok {
			img.Height = n
		}
	}
	if style, ok := tag.Parameters.Get(ComponentStyle); ok {
		if img.Width == 0 {
			if n, ok := scanStyleDimension(style, "width"); ok {
				img.Width = n
			}
		}
		if img.Height == 0 {
			if n, ok := scanStyleDimension(style, "height"); ok {
				img.Height = n
			}
		}
	}

	tag.Flags |= TagImage
	tag.Image = img
	return img
}

func isDataImage(src string) bool {
	_, ok := dataImagePrefix(src)
	return ok
}

// scanStyleDimension scans style for the first occurrence of key followed
// eventually by a run of digits, per spec §4.4's width/height style
// fallback.
func scanStyleDimension(style, key string) (int, bool) {
	lower := strings.ToLower(style)
	idx := strings.Index(lower, key)
	if idx < 0 {
		return 0, false
	}
	rest := style[idx+len(key):]
	i := 0
	for i < len(rest) && !(rest[i] >= '0' && rest[i] <= '9') {
		if rest[i] == ';' {
			return 0, false
		}
		i++
	}
	if i >= len(rest) {
		return 0, false
	}
	return parseDimension(rest[i:])
}
