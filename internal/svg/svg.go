// Package svg checks uploaded files and reads the metadata stored with them.
package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const ContentType = "image/svg+xml"

var ErrNotSVG = errors.New("only SVG allowed")

var utf8BOM = []byte("\xef\xbb\xbf")

// Validate accepts a file only when its name, its declared part type and its
// content all agree that it is an SVG image.
func Validate(filename, declaredType string, content []byte) error {
	if !strings.EqualFold(filepath.Ext(filename), ".svg") {
		return ErrNotSVG
	}

	if declaredType != "" {
		mediaType, _, err := mime.ParseMediaType(declaredType)
		if err != nil {
			return ErrNotSVG
		}
		if mediaType != ContentType && mediaType != "application/octet-stream" {
			return ErrNotSVG
		}
	}

	if !textual(mimetype.Detect(content)) {
		return ErrNotSVG
	}
	if _, ok := rootElement(content); !ok {
		return ErrNotSVG
	}
	return nil
}

// textual reports whether m is plain text or one of its descendants (XML,
// SVG). Sniffing only sees a prefix of the file, so it rules out binary
// content but cannot tell where the root element is.
func textual(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// rootElement returns the first start element of content when it is <svg>.
// Prologue tokens of any length (declaration, comments, doctype) are skipped.
func rootElement(content []byte) (xml.StartElement, bool) {
	content = bytes.TrimPrefix(content, utf8BOM)
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, t.Name.Local == "svg"
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return xml.StartElement{}, false
			}
		}
	}
}

// ParseDimensions returns the integer prefix of the root element's width and
// height attributes. Missing or unreadable values are 0.
func ParseDimensions(content []byte) (width, height int) {
	root, ok := rootElement(content)
	if !ok {
		return 0, 0
	}
	for _, attr := range root.Attr {
		if attr.Name.Space != "" {
			continue
		}
		switch attr.Name.Local {
		case "width":
			width = leadingInt(attr.Value)
		case "height":
			height = leadingInt(attr.Value)
		}
	}
	return width, height
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			if i == 0 && r == '+' {
				continue
			}
			break
		}
		n = n*10 + int(r-'0')
		if n > 1<<30 {
			return 0
		}
	}
	return n
}
