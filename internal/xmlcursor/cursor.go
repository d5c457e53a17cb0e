// Package xmlcursor provides forward-only, depth-aware navigation over an XML
// byte stream. It lets a handler descend into named elements, iterate repeated
// siblings and read attribute or text values without building the document in
// memory.
//
// Cursors are single-pass: once the stream has moved past an element, the
// cursor for that element yields no further children or text. Attribute values
// stay readable because they are captured when the element starts.
package xmlcursor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// StreamError reports malformed markup or a missing required element.
type StreamError struct {
	Element string // element being read when the problem was detected, if known
	Err     error
}

func (e *StreamError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("xml stream error in <%s>: %v", e.Element, e.Err)
	}
	return fmt.Sprintf("xml stream error: %v", e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// ErrMissingElement is wrapped by StreamError when a required element is absent.
var ErrMissingElement = errors.New("required element missing")

// stream is the decoder state shared by every cursor opened on one document.
type stream struct {
	dec   *xml.Decoder
	depth int
	open  []*Cursor
}

func (s *stream) next() (xml.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return nil, err
	}
	switch tok.(type) {
	case xml.StartElement:
		s.depth++
	case xml.EndElement:
		s.depth--
		for len(s.open) > 0 && s.open[len(s.open)-1].depth > s.depth {
			s.open[len(s.open)-1].done = true
			s.open = s.open[:len(s.open)-1]
		}
	}
	return tok, nil
}

func (s *stream) push(start xml.StartElement) *Cursor {
	c := &Cursor{s: s, start: start.Copy(), depth: s.depth}
	s.open = append(s.open, c)
	return c
}

// Cursor is positioned on one element of the stream.
type Cursor struct {
	s     *stream
	start xml.StartElement
	depth int
	done  bool
}

// Open reads up to the document's root element and returns a cursor on it.
// Encodings declared in the XML prolog other than UTF-8 are decoded.
func Open(r io.Reader) (*Cursor, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	s := &stream{dec: dec}
	for {
		tok, err := s.next()
		if err == io.EOF {
			return nil, &StreamError{Err: fmt.Errorf("no root element: %w", ErrMissingElement)}
		}
		if err != nil {
			return nil, &StreamError{Err: err}
		}
		if se, ok := tok.(xml.StartElement); ok {
			return s.push(se), nil
		}
	}
}

// Name returns the local name of the element.
func (c *Cursor) Name() string {
	return c.start.Name.Local
}

// Attr returns the value of the attribute with the given local name.
func (c *Cursor) Attr(name string) (string, bool) {
	for _, a := range c.start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Done reports whether the stream has moved past the end of this element.
func (c *Cursor) Done() bool {
	return c.done
}

// Children iterates over direct child elements named name.
func (c *Cursor) Children(name string) *Iter {
	return &Iter{parent: c, name: name}
}

// Descendants iterates over elements named name at any depth below c. The
// content of a matched element is skipped when the iterator advances, so a
// matched element never yields nested matches of its own.
func (c *Cursor) Descendants(name string) *Iter {
	return &Iter{parent: c, name: name, deep: true}
}

// Child returns the first direct child named name. Sibling elements before it
// are skipped. A StreamError wrapping ErrMissingElement is returned when the
// element ends without such a child.
func (c *Cursor) Child(name string) (*Cursor, error) {
	it := c.Children(name)
	if it.Next() {
		return it.Cursor(), nil
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return nil, &StreamError{Element: c.Name(), Err: fmt.Errorf("<%s>: %w", name, ErrMissingElement)}
}

// Text consumes the rest of the element and returns its character data,
// including that of nested elements, with surrounding whitespace trimmed.
func (c *Cursor) Text() (string, error) {
	var sb strings.Builder
	for !c.done {
		tok, err := c.s.next()
		if err != nil {
			return "", c.wrap(err)
		}
		if cd, ok := tok.(xml.CharData); ok {
			sb.Write(cd)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// ChildText follows path through first-match child elements and returns the
// text of the last one. The boolean is false when an element on the path is
// absent.
func (c *Cursor) ChildText(path ...string) (string, bool, error) {
	cur := c
	for _, name := range path {
		it := cur.Children(name)
		if !it.Next() {
			return "", false, it.Err()
		}
		cur = it.Cursor()
	}
	text, err := cur.Text()
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// Skip consumes the rest of the element.
func (c *Cursor) Skip() error {
	for !c.done {
		if _, err := c.s.next(); err != nil {
			return c.wrap(err)
		}
	}
	return nil
}

func (c *Cursor) wrap(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	var se *StreamError
	if errors.As(err, &se) {
		return err
	}
	return &StreamError{Element: c.Name(), Err: err}
}

// Iter is a lazy, single-pass sequence of element cursors.
type Iter struct {
	parent *Cursor
	name   string
	deep   bool
	cur    *Cursor
	err    error
}

// Next advances to the next matching element. It returns false when the
// parent element has ended or an error occurred; check Err afterwards.
func (it *Iter) Next() bool {
	if it.err != nil {
		return false
	}
	if it.cur != nil {
		if err := it.cur.Skip(); err != nil {
			it.err = err
			return false
		}
		it.cur = nil
	}
	p := it.parent
	for !p.done {
		tok, err := p.s.next()
		if err != nil {
			it.err = p.wrap(err)
			return false
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local == it.name && (it.deep || p.s.depth == p.depth+1) {
			it.cur = p.s.push(se)
			return true
		}
		if !it.deep {
			// Not interesting: skip the whole subtree of this child.
			if err := p.s.push(se).Skip(); err != nil {
				it.err = err
				return false
			}
		}
	}
	return false
}

// Cursor returns the element the iterator is positioned on.
func (it *Iter) Cursor() *Cursor {
	return it.cur
}

// Err returns the first error encountered while iterating.
func (it *Iter) Err() error {
	return it.err
}
