// FILE: lixenwraith/flatconfig/provider_xml.go
package flatconfig

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewXMLProvider returns the provider for ".xml" sources.
//
// Keys are built from element names below the root element. An element with
// name and value attributes (<setting name="K" value="V"/>) contributes
// "prefix.K" = "V" instead of its own name. All values are strings.
func NewXMLProvider() Provider {
	return &fileProvider{
		name:       ProviderXML,
		extensions: extensionMatcher{".xml"},
		parse:      parseXML,
	}
}

type xmlNodeKind int

const (
	xmlElement xmlNodeKind = iota
	xmlText
	xmlComment
)

// xmlNode is a minimal DOM node. Whitespace-only text is not kept as a node.
type xmlNode struct {
	kind     xmlNodeKind
	name     string
	attrs    []xml.Attr
	text     string
	children []*xmlNode

	pending bytes.Buffer // character data not yet committed as a text node
}

// flushText commits buffered character data as a text child.
func (n *xmlNode) flushText() {
	if n.pending.Len() == 0 {
		return
	}
	text := n.pending.String()
	n.pending.Reset()
	if isBlank(text) {
		return
	}
	n.children = append(n.children, &xmlNode{kind: xmlText, text: text})
}

// setting reports the name/value attribute pair of a <setting .../> style element.
// Any element carrying at least two attributes, name and value among them, qualifies.
func (n *xmlNode) setting() (name, value string, ok bool) {
	if len(n.attrs) < 2 {
		return "", "", false
	}
	var hasName, hasValue bool
	for _, attr := range n.attrs {
		if attr.Name.Space != "" {
			continue
		}
		switch attr.Name.Local {
		case "name":
			name, hasName = attr.Value, true
		case "value":
			value, hasValue = attr.Value, true
		}
	}
	return name, value, hasName && hasValue
}

func parseXML(data []byte) (FlatMap, error) {
	root, err := parseXMLDocument(data)
	if err != nil {
		return nil, err
	}

	flat := make(FlatMap)
	if root != nil {
		flattenXML(flat, "", root)
	}
	return flat, nil
}

// parseXMLDocument builds the DOM and returns the root element, or nil when
// the document has none.
func parseXMLDocument(data []byte) (*xmlNode, error) {
	// A BOM selects UTF-8 or UTF-16; without one the bytes pass through untouched
	// and the declared encoding (if any) is honoured by charsetReader.
	reader := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(transform.Nop))

	decoder := xml.NewDecoder(reader)
	decoder.CharsetReader = charsetReader

	var (
		root  *xmlNode
		stack []*xmlNode
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{kind: xmlElement, name: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements: <%s> after <%s>", node.name, root.name)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.flushText()
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			current := stack[len(stack)-1]
			current.flushText()
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].pending.Write(t)
			}

		case xml.Comment:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.flushText()
				parent.children = append(parent.children, &xmlNode{kind: xmlComment, text: string(t)})
			}
		}
	}

	return root, nil
}

// charsetReader decodes declared non-UTF-8 encodings. UTF-16 labels are
// passed through because the BOM transform has already produced UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "utf-16", "utf16", "utf-16le", "utf-16be", "us-ascii", "ascii":
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

func flattenXML(flat FlatMap, prefix string, node *xmlNode) {
	for _, child := range node.children {
		if child.kind != xmlElement {
			continue
		}

		if name, value, ok := child.setting(); ok {
			flat[joinKey(prefix, name)] = value
			continue
		}

		key := joinKey(prefix, child.name)
		switch {
		case len(child.children) == 1 && child.children[0].kind == xmlText:
			flat[key] = strings.TrimSpace(child.children[0].text)
		case len(child.children) > 0:
			flattenXML(flat, key, child)
		default:
			flat[key] = ""
		}
	}
}
