package directive

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Scan tokenizes bundler-emitted HTML and extracts every directive, in
// document order. The input is not modified; per-surface rewriting happens
// downstream against the same source bytes.
func Scan(r io.Reader) ([]Directive, error) {
	var directives []Directive

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return directives, nil
			}
			return nil, fmt.Errorf("failed to tokenize html: %w", z.Err())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			kindVal, ok := attrValue(tok, MarkerAttr)
			if !ok {
				continue
			}
			d, err := parse(tok, kindVal)
			if err != nil {
				return nil, err
			}
			directives = append(directives, d)
		}
	}
}

// ScanString is a convenience wrapper over Scan for in-memory documents.
func ScanString(doc string) ([]Directive, error) {
	return Scan(strings.NewReader(doc))
}

func parse(tok html.Token, kindVal string) (Directive, error) {
	var kind Kind
	switch Kind(kindVal) {
	case KindPage, KindBackgroundScript, KindManifest:
		kind = Kind(kindVal)
	default:
		return Directive{}, &MalformedDirectiveError{
			Tag:    tok.String(),
			Reason: fmt.Sprintf("unknown directive kind %q", kindVal),
		}
	}

	target, ok := attrValue(tok, "href")
	if !ok || target == "" {
		return Directive{}, &MalformedDirectiveError{
			Tag:    tok.String(),
			Reason: "missing required href attribute",
		}
	}

	d := Directive{
		Kind:      kind,
		TargetRef: target,
	}
	for _, a := range tok.Attr {
		d.RawAttributes = append(d.RawAttributes, Attribute{Key: a.Key, Val: a.Val})
	}
	if inc, ok := attrValue(tok, IncludeAttr); ok {
		d.Include = ParseIncludeList(inc)
	}
	return d, nil
}

func attrValue(tok html.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
