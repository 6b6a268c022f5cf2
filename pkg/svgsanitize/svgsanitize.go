package svgsanitize

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedSVG reports markup that cannot be parsed as XML. The
// pipeline treats this as a validation failure rather than passing
// unparseable bytes through.
var ErrMalformedSVG = errors.New("svgsanitize: malformed svg markup")

// Sanitize parses data as XML and re-serializes it with all executable
// content removed:
//
//   - <script> elements, including their entire subtree
//   - attributes whose name starts with "on" (onload, onclick, ...)
//   - href/xlink:href attributes with a javascript: scheme
//   - DTD declarations containing entity definitions
//
// All other elements, attributes, comments and character data are kept.
// Raw tokens are used so namespace prefixes survive serialization
// exactly as written.
func Sanitize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var out bytes.Buffer
	var stack []xml.Name
	sawRoot := false
	skipDepth := 0 // >0 while inside a stripped <script> subtree

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSVG, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skipDepth > 0 || isScript(t.Name) {
				skipDepth++
				continue
			}
			if !sawRoot {
				if !strings.EqualFold(t.Name.Local, "svg") {
					return nil, fmt.Errorf("%w: root element is %q, want svg", ErrMalformedSVG, t.Name.Local)
				}
				sawRoot = true
			}
			stack = append(stack, t.Name)
			writeStart(&out, t)

		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			if len(stack) == 0 || stack[len(stack)-1] != t.Name {
				return nil, fmt.Errorf("%w: unexpected end tag </%s>", ErrMalformedSVG, qualifiedName(t.Name))
			}
			stack = stack[:len(stack)-1]
			out.WriteString("</")
			out.WriteString(qualifiedName(t.Name))
			out.WriteByte('>')

		case xml.CharData:
			if skipDepth > 0 {
				continue
			}
			writeEscaped(&out, string(t), false)

		case xml.Comment:
			if skipDepth > 0 {
				continue
			}
			out.WriteString("<!--")
			out.Write(t)
			out.WriteString("-->")

		case xml.ProcInst:
			if skipDepth > 0 {
				continue
			}
			out.WriteString("<?")
			out.WriteString(t.Target)
			out.WriteByte(' ')
			out.Write(t.Inst)
			out.WriteString("?>")

		case xml.Directive:
			// Entity declarations can reference external resources or
			// expand into script-bearing markup. The whole directive goes.
			if skipDepth > 0 || containsEntityDecl(t) {
				continue
			}
			out.WriteString("<!")
			out.Write(t)
			out.WriteByte('>')
		}
	}

	if skipDepth > 0 || len(stack) != 0 {
		return nil, fmt.Errorf("%w: unclosed elements", ErrMalformedSVG)
	}
	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedSVG)
	}

	return out.Bytes(), nil
}

func isScript(name xml.Name) bool {
	return strings.EqualFold(name.Local, "script")
}

// unsafeAttr reports whether an attribute can execute script.
func unsafeAttr(attr xml.Attr) bool {
	local := strings.ToLower(attr.Name.Local)
	if strings.HasPrefix(local, "on") {
		return true
	}
	if local == "href" {
		val := strings.ToLower(strings.TrimSpace(attr.Value))
		// Strip whitespace and control characters browsers ignore inside schemes.
		val = strings.Map(func(r rune) rune {
			if r <= ' ' {
				return -1
			}
			return r
		}, val)
		if strings.HasPrefix(val, "javascript:") || strings.HasPrefix(val, "data:text/html") {
			return true
		}
	}
	return false
}

func containsEntityDecl(d xml.Directive) bool {
	return bytes.Contains(bytes.ToUpper(d), []byte("ENTITY"))
}

func writeStart(out *bytes.Buffer, t xml.StartElement) {
	out.WriteByte('<')
	out.WriteString(qualifiedName(t.Name))
	for _, attr := range t.Attr {
		if unsafeAttr(attr) {
			continue
		}
		out.WriteByte(' ')
		out.WriteString(qualifiedName(attr.Name))
		out.WriteString(`="`)
		writeEscaped(out, attr.Value, true)
		out.WriteByte('"')
	}
	out.WriteByte('>')
}

// qualifiedName renders a raw-token name. RawToken leaves the namespace
// prefix in Name.Space, so "xlink:href" arrives as {Space: "xlink",
// Local: "href"}.
func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// writeEscaped escapes XML metacharacters, preserving whitespace as-is.
// Quote escaping is only needed inside attribute values.
func writeEscaped(out *bytes.Buffer, s string, attr bool) {
	for _, r := range s {
		switch r {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '"':
			if attr {
				out.WriteString("&quot;")
			} else {
				out.WriteRune(r)
			}
		default:
			out.WriteRune(r)
		}
	}
}
