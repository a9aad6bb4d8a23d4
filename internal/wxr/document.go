// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package wxr parses WordPress WXR export documents into typed records.
//
// A WXR file is an RSS channel whose items carry metadata under the wp,
// content, excerpt and dc namespaces. Exporters are not consistent about
// declaring all of them, so parsing resolves the declarations actually
// present in the document and falls back to the well-known URIs for the
// rest.
package wxr

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrDocumentParse marks a malformed document. It is fatal and distinct
// from a merely missing namespace declaration, which is not an error.
var ErrDocumentParse = errors.New("malformed WXR document")

// Well-known namespace URIs per WXR 1.2.
const (
	NSWordPress  = "http://wordpress.org/export/1.2/"
	NSContent    = "http://purl.org/rss/1.0/modules/content/"
	NSExcerpt    = "http://wordpress.org/export/1.2/excerpt/"
	NSDublinCore = "http://purl.org/dc/elements/1.1/"
)

// Logical namespace prefixes used by field extraction.
const (
	PrefixWP      = "wp"
	PrefixContent = "content"
	PrefixExcerpt = "excerpt"
	PrefixDC      = "dc"
)

// Namespaces maps a logical prefix to the URI it is bound to in the
// current document. It is a value threaded through extraction; nothing
// mutates it after Parse returns.
type Namespaces map[string]string

// DefaultNamespaces returns the well-known WXR 1.2 bindings.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		PrefixWP:      NSWordPress,
		PrefixContent: NSContent,
		PrefixExcerpt: NSExcerpt,
		PrefixDC:      NSDublinCore,
	}
}

// URI returns the URI bound to a prefix, or "" for an unknown prefix.
func (ns Namespaces) URI(prefix string) string {
	return ns[prefix]
}

// bindDefaults fills in any of the four standard prefixes a document did
// not declare, so downstream lookups succeed uniformly.
func (ns Namespaces) bindDefaults() {
	for prefix, uri := range DefaultNamespaces() {
		if _, ok := ns[prefix]; !ok {
			ns[prefix] = uri
		}
	}
}

// Element is one node of the parsed document tree.
type Element struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Text     string
	Children []*Element
}

// Attr returns the value of an attribute by local name, or "".
func (e *Element) Attr(local string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// Document is a fully parsed WXR document plus the namespace bindings
// discovered in it.
type Document struct {
	Root *Element
	NS   Namespaces
}

// Parse reads and decodes a complete WXR document. Expected document sizes
// (tens of thousands of items) fit a single batch parse. Any XML syntax
// error wraps ErrDocumentParse.
func Parse(r io.Reader) (*Document, error) {
	ns := Namespaces{}
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name, Attrs: t.Attr}
			collectNamespaces(ns, t.Attr)
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrDocumentParse)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unexpected closing tag </%s>", ErrDocumentParse, t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrDocumentParse)
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unclosed element <%s>", ErrDocumentParse, stack[len(stack)-1].Name.Local)
	}

	ns.bindDefaults()
	return &Document{Root: root, NS: ns}, nil
}

// collectNamespaces records xmlns declarations found on an element.
func collectNamespaces(ns Namespaces, attrs []xml.Attr) {
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			ns[a.Name.Local] = a.Value
		}
	}
}

// Channel returns the document's channel element, or an error for a
// document that is not a WXR export at all.
func (d *Document) Channel() (*Element, error) {
	for _, c := range d.Root.Children {
		if c.Name.Local == "channel" {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: no channel element", ErrDocumentParse)
}

// matches reports whether an element name matches a logical (prefix, local)
// pair under the document's bindings. The decoder resolves declared
// prefixes to their URIs; for a prefix the document never declared, the
// raw prefix survives in Name.Space, so both are accepted.
func (d *Document) matches(name xml.Name, prefix, local string) bool {
	if name.Local != local {
		return false
	}
	if prefix == "" {
		return name.Space == ""
	}
	return name.Space == d.NS.URI(prefix) || name.Space == prefix
}

// Find returns the first direct child matching the qualified name, or nil.
func (d *Document) Find(el *Element, prefix, local string) *Element {
	for _, c := range el.Children {
		if d.matches(c.Name, prefix, local) {
			return c
		}
	}
	return nil
}

// FindAll returns all direct children matching the qualified name, in
// document order.
func (d *Document) FindAll(el *Element, prefix, local string) []*Element {
	var out []*Element
	for _, c := range el.Children {
		if d.matches(c.Name, prefix, local) {
			out = append(out, c)
		}
	}
	return out
}

// Text extracts a scalar field from a direct child element by its
// unqualified name. The text is whitespace-trimmed; a missing child and an
// empty one are both "" — missing is a valid state for many fields, never
// an error.
func (d *Document) Text(el *Element, local string) string {
	return d.NSText(el, "", local)
}

// NSText extracts a scalar field from a namespaced direct child element.
func (d *Document) NSText(el *Element, prefix, local string) string {
	c := d.Find(el, prefix, local)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

// WPText extracts a field under the wp namespace, the common case.
func (d *Document) WPText(el *Element, local string) string {
	return d.NSText(el, PrefixWP, local)
}
