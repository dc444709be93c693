package portaria

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// fragmentEnvelope is the outer XML of one matéria fragment: the root
// element's name attribute plus the pseudo-HTML payload found in
// body>Texto (usually CDATA).
type fragmentEnvelope struct {
	NameAttr string
	Texto    string
}

// decodeEnvelope token-walks the fragment XML. The payload is the
// character data of the first Texto element; anything else is ignored.
func decodeEnvelope(data []byte) (fragmentEnvelope, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var env fragmentEnvelope
	var texto strings.Builder
	rootSeen := false
	inTexto := false
	textoSeen := false

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fragmentEnvelope{}, fmt.Errorf("malformed fragment: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if !rootSeen {
				rootSeen = true
				for _, attr := range t.Attr {
					if attr.Name.Local == "name" {
						env.NameAttr = attr.Value
					}
				}
			}
			if t.Name.Local == "Texto" && !textoSeen {
				inTexto = true
			}
		case xml.EndElement:
			if t.Name.Local == "Texto" && inTexto {
				inTexto = false
				textoSeen = true
				env.Texto = texto.String()
			}
		case xml.CharData:
			if inTexto {
				texto.Write(t)
			}
		}
	}
	return env, nil
}

// htmlToText parses pseudo-HTML and concatenates its leaf text nodes,
// collapsing whitespace runs to single spaces. Parse problems yield an
// empty string rather than an error: a fragment with broken markup is
// simply treated as having no text.
func htmlToText(markup string) string {
	if markup == "" {
		return ""
	}
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return nodeText(root)
}

// nodeText flattens the text content of one parsed node.
func nodeText(node *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return normalizeSpace(strings.Join(parts, " "))
}

// tableRows returns every <tr> element of the payload in document order.
func tableRows(markup string) ([]*html.Node, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse annex markup: %w", err)
	}
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return rows, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
