package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"flowpulse-docparse/internal/domain"
	apperrors "flowpulse-docparse/pkg/errors"
)

// HTMLExtractor strips markup and keeps block structure as blank lines.
type HTMLExtractor struct{}

func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

func (HTMLExtractor) Extract(_ context.Context, file *domain.InputFile) (*Result, error) {
	return &Result{Text: normalizeText(htmlToText(file.Data))}, nil
}

// EPUBExtractor concatenates the spine chapters of an EPUB book.
type EPUBExtractor struct {
	logger domain.Logger
}

func NewEPUBExtractor(logger domain.Logger) *EPUBExtractor {
	return &EPUBExtractor{logger: logger}
}

func (e *EPUBExtractor) Extract(ctx context.Context, file *domain.InputFile) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(file.Data), file.Size())
	if err != nil {
		return nil, epubError(fmt.Errorf("open archive: %w", err))
	}

	containerBytes, err := readZipFile(zr, "META-INF/container.xml")
	if err != nil {
		return nil, epubError(fmt.Errorf("missing container.xml: %w", err))
	}
	opfPath, err := findOPFPath(containerBytes)
	if err != nil {
		return nil, epubError(fmt.Errorf("missing package path: %w", err))
	}
	opfBytes, err := readZipFile(zr, opfPath)
	if err != nil {
		return nil, epubError(fmt.Errorf("missing package file: %w", err))
	}

	hrefs := spineHrefs(opfBytes)
	opfDir := path.Dir(opfPath)
	if opfDir == "." {
		opfDir = ""
	}

	chapters := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewTimeoutError(string(FormatEPUB), err)
		}
		if unescaped, err := url.PathUnescape(href); err == nil && unescaped != "" {
			href = unescaped
		}
		b, err := readZipFile(zr, path.Clean(path.Join(opfDir, href)))
		if err != nil {
			e.logger.Debug("Skipping missing EPUB chapter", "href", href)
			continue
		}
		if t := normalizeText(htmlToText(b)); t != "" {
			chapters = append(chapters, t)
		}
	}

	return &Result{Text: strings.Join(chapters, "\n\n")}, nil
}

func epubError(err error) error {
	return apperrors.NewParseError(string(FormatEPUB), fmt.Errorf("%w: %v", domain.ErrParse, err))
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	lower := strings.ToLower(name)
	var match *zip.File
	for _, f := range zr.File {
		if f.Name == name {
			match = f
			break
		}
		if match == nil && strings.ToLower(f.Name) == lower {
			match = f
		}
	}
	if match == nil {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := match.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func findOPFPath(containerXML []byte) (string, error) {
	var c struct {
		Rootfiles []struct {
			FullPath string `xml:"full-path,attr"`
		} `xml:"rootfiles>rootfile"`
	}
	if err := xml.Unmarshal(containerXML, &c); err != nil {
		return "", err
	}
	for _, rf := range c.Rootfiles {
		if p := strings.TrimSpace(rf.FullPath); p != "" {
			return p, nil
		}
	}
	return "", fmt.Errorf("rootfile not found")
}

// spineHrefs returns the manifest hrefs in spine order. Matching is on local
// names so any namespace prefix works.
func spineHrefs(opf []byte) []string {
	manifest := map[string]string{}
	var spine []string

	dec := xml.NewDecoder(bytes.NewReader(opf))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch strings.ToLower(se.Name.Local) {
		case "item":
			var id, href string
			for _, a := range se.Attr {
				switch strings.ToLower(a.Name.Local) {
				case "id":
					id = a.Value
				case "href":
					href = strings.TrimSpace(a.Value)
				}
			}
			if id != "" && href != "" {
				manifest[id] = href
			}
		case "itemref":
			for _, a := range se.Attr {
				if strings.ToLower(a.Name.Local) == "idref" && a.Value != "" {
					spine = append(spine, a.Value)
					break
				}
			}
		}
	}

	hrefs := make([]string, 0, len(spine))
	for _, id := range spine {
		if href, ok := manifest[id]; ok {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs
}

var (
	blockTags = map[string]bool{
		"p": true, "div": true, "section": true, "article": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"li": true, "ul": true, "ol": true, "blockquote": true, "table": true,
	}
	skipTags = map[string]bool{
		"script": true, "style": true, "head": true, "title": true, "nav": true,
	}
)

// htmlToText walks the parsed tree. Table rows become tab-joined lines so
// the table reconstructor can pick them up.
func htmlToText(b []byte) string {
	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil || doc == nil {
		return ""
	}

	var sb strings.Builder
	lastByte := func() byte {
		s := sb.String()
		if s == "" {
			return '\n'
		}
		return s[len(s)-1]
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			tag := strings.ToLower(n.Data)
			if skipTags[tag] {
				return
			}
			switch {
			case tag == "br" || tag == "tr":
				sb.WriteString("\n")
			case tag == "td" || tag == "th":
				if c := lastByte(); c != '\n' {
					sb.WriteString("\t")
				}
			case blockTags[tag]:
				sb.WriteString("\n\n")
			}
		}
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				if c := lastByte(); c != '\n' && c != ' ' && c != '\t' {
					sb.WriteString(" ")
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[strings.ToLower(n.Data)] {
			sb.WriteString("\n\n")
		}
	}
	walk(doc)

	return sb.String()
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\u00a0", " ")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		t := strings.Trim(line, " ")
		if strings.TrimSpace(t) == "" {
			blank++
			if blank <= 1 {
				out = append(out, "")
			}
			continue
		}
		blank = 0
		out = append(out, t)
	}
	return sanitizeText(strings.TrimSpace(strings.Join(out, "\n")))
}
