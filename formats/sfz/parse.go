// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"maps"
	"regexp"
	"strings"
)

// Opcodes maps lower-cased opcode names to their raw values.
type Opcodes map[string]string

// Get returns the first non-empty value among keys, which lets callers list
// an opcode together with its aliases.
func (o Opcodes) Get(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := o[k]; ok {
			return v, true
		}
	}
	return "", false
}

// Document is a parsed SFZ file.
type Document struct {
	Control Opcodes
	regions []Opcodes
}

// Regions returns the effective opcode set of every region in file order.
// Each set already includes what the region inherits from the enclosing
// global, master and group scopes.
func (d *Document) Regions() []Opcodes {
	out := make([]Opcodes, len(d.regions))
	for i, r := range d.regions {
		out[i] = maps.Clone(r)
	}
	return out
}

// DefaultPath returns the control scope's default_path with forward slashes.
func (d *Document) DefaultPath() string {
	return normalizeSeparators(d.Control["default_path"])
}

var (
	lineComment = regexp.MustCompile(`//[^\n]*`)
	headerToken = regexp.MustCompile(`<(\w+)>`)
	opcodeToken = regexp.MustCompile(`(?:^|\s)(\w+)=`)
)

type scope int

const (
	scopeNone scope = iota
	scopeControl
	scopeGlobal
	scopeMaster
	scopeGroup
	scopeRegion
)

func scopeOf(header string) scope {
	switch strings.ToLower(header) {
	case "control":
		return scopeControl
	case "global":
		return scopeGlobal
	case "master":
		return scopeMaster
	case "group":
		return scopeGroup
	case "region":
		return scopeRegion
	default:
		return scopeNone
	}
}

// Parse reads SFZ text. A scope keeps its opcodes until the same header
// opens again; a region's effective set is global, master, group and region
// merged in that order with later values winning. Opcodes under headers
// other than control, global, master, group and region are ignored. A block
// comment left open runs to the end of the text.
func Parse(text string) *Document {
	text = stripComments(strings.ToValidUTF8(text, "\uFFFD"))

	doc := &Document{Control: Opcodes{}}
	var global, master, group Opcodes

	headers := headerToken.FindAllStringSubmatchIndex(text, -1)
	for i, h := range headers {
		bodyEnd := len(text)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}
		body := parseOpcodes(text[h[1]:bodyEnd])

		switch scopeOf(text[h[2]:h[3]]) {
		case scopeControl:
			doc.Control = body
		case scopeGlobal:
			global = body
		case scopeMaster:
			master = body
		case scopeGroup:
			group = body
		case scopeRegion:
			merged := Opcodes{}
			maps.Copy(merged, global)
			maps.Copy(merged, master)
			maps.Copy(merged, group)
			maps.Copy(merged, body)
			doc.regions = append(doc.regions, merged)
		}
	}

	return doc
}

func stripComments(text string) string {
	text = lineComment.ReplaceAllString(text, "")

	var b strings.Builder
	for {
		start := strings.Index(text, "/*")
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		end := strings.Index(text[start+2:], "*/")
		if end < 0 {
			b.WriteString(text[:start])
			return b.String()
		}
		b.WriteString(text[:start])
		text = text[start+2+end+2:]
	}
}

// parseOpcodes splits "key=value" pairs. A value runs up to the whitespace
// before the next key, so file names may contain spaces.
func parseOpcodes(body string) Opcodes {
	ops := Opcodes{}

	matches := opcodeToken.FindAllStringSubmatchIndex(body, -1)
	for i, m := range matches {
		valueEnd := len(body)
		if i+1 < len(matches) {
			valueEnd = matches[i+1][0]
		}
		key := strings.ToLower(body[m[2]:m[3]])
		value := strings.TrimSpace(body[m[1]:valueEnd])
		if value == "" {
			continue
		}
		ops[key] = value
	}
	return ops
}

func normalizeSeparators(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
