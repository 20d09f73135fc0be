package tagparser

import "strings"

// ParsedTag represents a parsed json struct tag.
type ParsedTag struct {
	// Name is the response key, empty when the tag leaves it to the field name.
	Name string
	// Skip is set for `json:"-"`.
	Skip bool
	// OmitEmpty is set when the omitempty option is present.
	OmitEmpty bool
	// Options holds every option after the name, in order.
	Options []string
}

// ParseJSONTag parses a json struct tag value.
// Examples:
//   - "name" -> {Name: "name"}
//   - "first,omitempty" -> {Name: "first", OmitEmpty: true}
//   - "-" -> {Skip: true}
//   - "-," -> {Name: "-"}
func ParseJSONTag(tag string) ParsedTag {
	var parsed ParsedTag

	if tag == "-" {
		parsed.Skip = true
		return parsed
	}

	name, rest, hasOptions := strings.Cut(tag, ",")
	parsed.Name = strings.TrimSpace(name)
	if !hasOptions {
		return parsed
	}

	for _, opt := range strings.Split(rest, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		parsed.Options = append(parsed.Options, opt)
		if opt == "omitempty" {
			parsed.OmitEmpty = true
		}
	}
	return parsed
}

// HasTag reports whether the tag carried anything at all.
func (p ParsedTag) HasTag() bool {
	return p.Skip || p.Name != "" || len(p.Options) > 0
}
