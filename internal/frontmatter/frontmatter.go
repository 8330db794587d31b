// Package frontmatter splits content files into a `---` fenced YAML metadata
// header and a body, and renders header maps canonically.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Style captures the newline shape of a document.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

var byteOrderMark = []byte("\ufeff")

// ErrMissingClosingDelimiter indicates the document started with a YAML
// header delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml header start delimiter found but closing delimiter is missing")

// Split separates the YAML header (`---` delimited) from the body.
//
// A leading UTF-8 byte order mark is dropped before the opening delimiter is
// matched. If the document does not start with a header delimiter, had is
// false and body is the full input. A closing delimiter on the last line
// without a trailing newline is accepted and yields an empty body.
func Split(content []byte) (header []byte, body []byte, had bool, style Style, err error) {
	content = bytes.TrimPrefix(content, byteOrderMark)
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	start := len(open)
	rest := content[start:]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, style, nil
	}
	if bytes.Equal(rest, []byte("---")) {
		return []byte{}, []byte{}, true, style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, style, nil
	}

	closeAtEOF := []byte(nl + "---")
	if bytes.HasSuffix(rest, closeAtEOF) {
		return rest[:len(rest)-len("---")], []byte{}, true, style, nil
	}

	return nil, nil, false, style, ErrMissingClosingDelimiter
}

// ParseYAML parses a raw YAML header (without --- delimiters) into a map.
//
// Scalar values keep their YAML types. Unquoted timestamps decode to
// time.Time in UTC when they carry no zone; quoted ones stay strings.
func ParseYAML(header []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(header)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
