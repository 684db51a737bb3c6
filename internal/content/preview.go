package content

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in bodies is not rendered; goldmark omits it unless WithUnsafe is set.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderPreview converts a markdown version body to HTML.
func RenderPreview(v Version) (string, error) {
	var buf bytes.Buffer
	if v.Title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", v.Title)
	}
	buf.WriteString(v.Body)
	var out bytes.Buffer
	if err := markdown.Convert(buf.Bytes(), &out); err != nil {
		return "", fmt.Errorf("render version %d: %w", v.VersionNumber, err)
	}
	return out.String(), nil
}
