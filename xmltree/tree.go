// Package xmltree builds a small element tree from XML text and provides
// namespace-agnostic lookups over it.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// xmlNamespace is bound to the xml prefix without a declaration.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// entityDecl matches a general entity with a literal value in a DOCTYPE
// internal subset.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%"'>]+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// Element is a parsed XML element.
type Element struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []*Element

	// Text is the character data that precedes the first child element.
	Text string
}

// frame tracks an open element while its leading text is still being read.
type frame struct {
	el       *Element
	text     strings.Builder
	textDone bool
}

func (f *frame) finishText() {
	if f.textDone {
		return
	}
	f.el.Text = f.text.String()
	f.textDone = true
}

// SyntaxError reports XML that is not well-formed.
type SyntaxError struct {
	Msg  string
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("xml syntax error on line %d: %s", e.Line, e.Msg)
	}
	return "xml syntax error: " + e.Msg
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Parse parses text into an element tree and returns the root element.
func Parse(text string) (*Element, error) {
	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = true
	// The text is already decoded, so any declared encoding is honored as-is.
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		root  *Element
		stack []*frame
		scope []map[string]bool
	)

	first := true
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, syntaxError(d, err)
		}
		isFirst := first
		first = false

		switch t := tok.(type) {
		case xml.ProcInst:
			if strings.EqualFold(t.Target, "xml") && !isFirst {
				return nil, newSyntaxError(d, "XML declaration not at start of document")
			}

		case xml.Directive:
			if root == nil {
				declareEntities(d, t)
			}

		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, newSyntaxError(d, "junk after document element")
			}
			bound, err := bindNamespaces(d, scope, t)
			if err != nil {
				return nil, err
			}
			scope = append(scope, bound)
			el := &Element{Name: t.Name, Attr: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.finishText()
				parent.el.Children = append(parent.el.Children, el)
			}
			stack = append(stack, &frame{el: el})

		case xml.EndElement:
			stack[len(stack)-1].finishText()
			stack = stack[:len(stack)-1]
			scope = scope[:len(scope)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, newSyntaxError(d, "text outside the document element")
				}
				continue
			}
			if top := stack[len(stack)-1]; !top.textDone {
				top.text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, newSyntaxError(d, "no element found")
	}
	return root, nil
}

// bindNamespaces returns the namespaces declared on t and reports an
// error for duplicate attributes or a prefix with no binding in scope.
// Names have already been resolved by the decoder, so an unbound prefix
// shows up as a Space that matches no namespace in scope.
func bindNamespaces(d *xml.Decoder, scope []map[string]bool, t xml.StartElement) (map[string]bool, error) {
	bound := make(map[string]bool)
	seen := make(map[xml.Name]bool, len(t.Attr))
	for _, a := range t.Attr {
		if seen[a.Name] {
			return nil, newSyntaxError(d, fmt.Sprintf("duplicate attribute %q", a.Name.Local))
		}
		seen[a.Name] = true
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			bound[a.Value] = true
		}
	}

	inScope := func(space string) bool {
		if space == "" || space == xmlNamespace || bound[space] {
			return true
		}
		for i := len(scope) - 1; i >= 0; i-- {
			if scope[i][space] {
				return true
			}
		}
		return false
	}

	if !inScope(t.Name.Space) {
		return nil, newSyntaxError(d, fmt.Sprintf("unbound prefix on element %q", t.Name.Local))
	}
	for _, a := range t.Attr {
		if a.Name.Space != "xmlns" && !inScope(a.Name.Space) {
			return nil, newSyntaxError(d, fmt.Sprintf("unbound prefix on attribute %q", a.Name.Local))
		}
	}
	return bound, nil
}

// declareEntities registers the literal general entities of a DOCTYPE
// internal subset with d.
func declareEntities(d *xml.Decoder, dir xml.Directive) {
	text := string(dir)
	if !strings.HasPrefix(text, "DOCTYPE") {
		return
	}
	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start < 0 || end < start {
		return
	}
	for _, m := range entityDecl.FindAllStringSubmatch(text[start+1:end], -1) {
		if d.Entity == nil {
			d.Entity = make(map[string]string)
		}
		if _, ok := d.Entity[m[1]]; ok {
			// the first declaration is binding
			continue
		}
		value := m[2]
		if value == "" {
			value = m[3]
		}
		d.Entity[m[1]] = value
	}
}

func syntaxError(d *xml.Decoder, err error) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{Msg: se.Msg, Line: se.Line, Err: err}
	}
	line, _ := d.InputPos()
	return &SyntaxError{Msg: err.Error(), Line: line, Err: err}
}

func newSyntaxError(d *xml.Decoder, msg string) error {
	line, _ := d.InputPos()
	return &SyntaxError{Msg: msg, Line: line}
}

// LocalName returns name without any namespace qualification. Both the
// "{uri}local" and "prefix:local" spellings are accepted.
func LocalName(name string) string {
	if i := strings.LastIndexByte(name, '}'); i >= 0 {
		return name[i+1:]
	}
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// LocalName returns the element's unqualified tag name.
func (e *Element) LocalName() string {
	return LocalName(e.Name.Local)
}

// Walk calls fn for e and every descendant in document order.
// Returning false from fn stops the walk.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// FindAll returns e and its descendants whose local name is local, in
// document order.
func (e *Element) FindAll(local string) []*Element {
	var out []*Element
	e.Walk(func(el *Element) bool {
		if el.LocalName() == local {
			out = append(out, el)
		}
		return true
	})
	return out
}

// FirstChild returns the first direct child whose local name is local.
func (e *Element) FirstChild(local string) *Element {
	for _, c := range e.Children {
		if c.LocalName() == local {
			return c
		}
	}
	return nil
}

// Attribute returns the value of the un-namespaced attribute name, or ""
// when it is absent.
func (e *Element) Attribute(name string) string {
	v, _ := e.LookupAttribute(name)
	return v
}

// LookupAttribute is like Attribute but reports whether the attribute
// was present.
func (e *Element) LookupAttribute(name string) (string, bool) {
	for _, a := range e.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
