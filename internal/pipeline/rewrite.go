package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/wextkit/cli/internal/directive"
)

// Void elements never produce an end tag, so dropping one never needs a
// subtree skip.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {},
	"track": {}, "wbr": {},
}

// ExtractInlineScripts concatenates the bodies of every inline script in the
// document, in document order. Scripts that already reference a src are left
// alone; extension documents only forbid inline execution.
func ExtractInlineScripts(doc []byte) (string, error) {
	var buf strings.Builder

	z := html.NewTokenizer(bytes.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return buf.String(), nil
			}
			return "", fmt.Errorf("failed to tokenize html: %w", z.Err())
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != "script" || hasAttr(tok, "src") {
				continue
			}
			body, err := readRawText(z, "script")
			if err != nil {
				return "", err
			}
			buf.WriteString(body)
		}
	}
}

// validateElementIncludes rejects include attributes, anywhere in the
// document, that name a surface that was never declared.
func validateElementIncludes(doc []byte, surfaces []Surface) error {
	ids := make(map[string]struct{}, len(surfaces))
	for _, s := range surfaces {
		ids[s.ID] = struct{}{}
	}

	z := html.NewTokenizer(bytes.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to tokenize html: %w", z.Err())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if hasAttr(tok, directive.MarkerAttr) {
				// Directive filters are target- or surface-scoped and
				// validated by their own stages.
				continue
			}
			v, ok := attrValue(tok, directive.IncludeAttr)
			if !ok {
				continue
			}
			for _, name := range directive.ParseIncludeList(v) {
				if _, declared := ids[name]; !declared {
					return &UnknownSurfaceReferenceError{Name: name, Where: "element " + tok.String()}
				}
			}
		}
	}
}

// renderPage rewrites the original document for one page surface:
// directive tags, preloads, and inline script bodies are removed, integrity
// attributes are stripped, include-filtered elements are kept or dropped
// against the surface id, and the first meaningful inline script tag is
// replaced by a reference to the surface's shim.
func renderPage(doc []byte, s Surface) ([]byte, error) {
	var out bytes.Buffer
	replaced := false

	z := html.NewTokenizer(bytes.NewReader(doc))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return out.Bytes(), nil
			}
			return nil, fmt.Errorf("failed to tokenize html: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			raw := z.Raw()
			tok := z.Token()

			if hasAttr(tok, directive.MarkerAttr) {
				if err := skipElement(z, tok, tt); err != nil {
					return nil, err
				}
				continue
			}

			if tok.Data == "link" && isPreload(tok) {
				continue
			}

			if tok.Data == "script" && tt == html.StartTagToken && !hasAttr(tok, "src") {
				body, err := readRawText(z, "script")
				if err != nil {
					return nil, err
				}
				// Inline bodies are always externalized; the include filter
				// only decides whether this surface references the shim
				// from this position.
				if v, ok := attrValue(tok, directive.IncludeAttr); ok && !includes(v, s.ID) {
					continue
				}
				// The bundler sometimes emits a stray empty script tag;
				// those are dropped rather than pointed at the shim.
				if !replaced && (len(tok.Attr) > 0 || strings.TrimSpace(body) != "") {
					out.WriteString(shimScriptTag(tok, s.ShimPath))
					replaced = true
				}
				continue
			}

			if v, ok := attrValue(tok, directive.IncludeAttr); ok {
				if !includes(v, s.ID) {
					if err := skipElement(z, tok, tt); err != nil {
						return nil, err
					}
					continue
				}
				tok.Attr = removeAttr(tok.Attr, directive.IncludeAttr)
				tok.Attr = removeAttr(tok.Attr, "integrity")
				out.WriteString(tok.String())
				continue
			}

			if hasAttr(tok, "integrity") {
				tok.Attr = removeAttr(tok.Attr, "integrity")
				out.WriteString(tok.String())
				continue
			}

			out.Write(raw)

		default:
			out.Write(z.Raw())
		}
	}
}

// shimScriptTag rebuilds the bundler's inline script tag as an external
// reference: original attributes propagate, minus the nonce (meaningless
// once the body is externalized) and integrity, plus the shim src.
func shimScriptTag(tok html.Token, shimPath string) string {
	attrs := removeAttr(tok.Attr, "nonce")
	attrs = removeAttr(attrs, "integrity")
	attrs = removeAttr(attrs, directive.IncludeAttr)
	attrs = append(attrs, html.Attribute{Key: "src", Val: "/" + shimPath})
	ref := html.Token{Type: html.StartTagToken, Data: "script", Attr: attrs}
	return ref.String() + "</script>"
}

// skipElement consumes the remainder of an element that is being dropped.
// Void and self-closing elements carry no subtree; raw-text elements carry a
// single text child; everything else is skipped to its matching end tag.
func skipElement(z *html.Tokenizer, tok html.Token, tt html.TokenType) error {
	if tt == html.SelfClosingTagToken {
		return nil
	}
	if _, void := voidElements[tok.Data]; void {
		return nil
	}
	depth := 1
	for depth > 0 {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to tokenize html: %w", z.Err())
		case html.StartTagToken:
			name, _ := z.TagName()
			if _, void := voidElements[string(name)]; !void && string(name) == tok.Data {
				depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == tok.Data {
				depth--
			}
		}
	}
	return nil
}

// readRawText consumes a raw-text element's body and end tag, returning the
// body.
func readRawText(z *html.Tokenizer, tag string) (string, error) {
	var body strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return body.String(), nil
			}
			return "", fmt.Errorf("failed to tokenize html: %w", z.Err())
		case html.TextToken:
			body.Write(z.Raw())
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == tag {
				return body.String(), nil
			}
		}
	}
}

func isPreload(tok html.Token) bool {
	rel, _ := attrValue(tok, "rel")
	return rel == "preload" || rel == "modulepreload"
}

func includes(attrVal, id string) bool {
	for _, name := range directive.ParseIncludeList(attrVal) {
		if name == id {
			return true
		}
	}
	return false
}

func hasAttr(tok html.Token, key string) bool {
	_, ok := attrValue(tok, key)
	return ok
}

func attrValue(tok html.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func removeAttr(attrs []html.Attribute, key string) []html.Attribute {
	out := make([]html.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if a.Key != key {
			out = append(out, a)
		}
	}
	return out
}
