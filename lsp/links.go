package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/rangelink/internal/workspace"
	"github.com/teranos/rangelink/link"
)

// documentLinks returns a documentLink for every navigable link in text.
// Relative link paths resolve against root.
func documentLinks(text string, detector *link.Detector, root string) []protocol.DocumentLink {
	idx := newLineIndex(text)
	detected := detector.Detect(text)

	links := make([]protocol.DocumentLink, 0, len(detected))
	for _, d := range detected {
		target := targetURI(workspace.Resolve(d.Link.Path, root), d.Link.Start)
		tooltip := tooltipFor(d.Link)
		links = append(links, protocol.DocumentLink{
			Range:   idx.rangeOf(d.Start, d.End),
			Target:  &target,
			Tooltip: &tooltip,
		})
	}
	return links
}

// targetURI builds file://<abs>#L<line>,<character> for the start of a link
func targetURI(absPath string, start link.LinkPosition) protocol.DocumentUri {
	fragment := fmt.Sprintf("L%d", start.Line)
	if start.HasCharacter() {
		fragment += fmt.Sprintf(",%d", start.Character)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath), Fragment: fragment}
	return u.String()
}

func tooltipFor(l link.ParsedLink) string {
	var b strings.Builder
	b.WriteString("Open ")
	b.WriteString(l.Path)
	if l.IsSinglePoint() {
		b.WriteString(" at " + l.Start.String())
	} else {
		b.WriteString(" lines " + l.Start.String() + " to " + l.End.String())
	}
	if l.IsRectangular() {
		b.WriteString(" (rectangular)")
	}
	return b.String()
}

// uriToPath converts a file URI sent by the client to a filesystem path
func uriToPath(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}
