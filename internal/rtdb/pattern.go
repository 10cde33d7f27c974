package rtdb

import (
	"fmt"
	"strings"
)

// Pattern matches database refs against a template such as
// "/users/{uid}/notifications/{nid}". Each {name} captures one path segment.
type Pattern struct {
	raw      string
	segments []segment
}

type segment struct {
	literal string
	param   string
}

// Compile parses a ref template.
func Compile(template string) (*Pattern, error) {
	trimmed := strings.Trim(strings.TrimSpace(template), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("rtdb: empty ref template %q", template)
	}

	parts := strings.Split(trimmed, "/")
	p := &Pattern{raw: "/" + trimmed, segments: make([]segment, 0, len(parts))}
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		switch {
		case part == "":
			return nil, fmt.Errorf("rtdb: empty segment in ref template %q", template)
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := strings.TrimSpace(part[1 : len(part)-1])
			if name == "" || strings.ContainsAny(name, "{}=*") {
				return nil, fmt.Errorf("rtdb: invalid wildcard %q in ref template %q", part, template)
			}
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("rtdb: duplicate wildcard %q in ref template %q", name, template)
			}
			seen[name] = struct{}{}
			p.segments = append(p.segments, segment{param: name})
		case strings.ContainsAny(part, "{}"):
			return nil, fmt.Errorf("rtdb: wildcard must span a whole segment, got %q", part)
		default:
			p.segments = append(p.segments, segment{literal: part})
		}
	}

	return p, nil
}

// MustCompile is like Compile but panics on invalid templates.
func MustCompile(template string) *Pattern {
	p, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether ref matches the pattern and returns the captured
// wildcard values. Leading and trailing slashes on ref are ignored.
func (p *Pattern) Match(ref string) (map[string]string, bool) {
	if p == nil {
		return nil, false
	}

	trimmed := strings.Trim(strings.TrimSpace(ref), "/")
	if trimmed == "" {
		return nil, false
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) != len(p.segments) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range p.segments {
		part := parts[i]
		if part == "" {
			return nil, false
		}
		if seg.param != "" {
			params[seg.param] = part
			continue
		}
		if seg.literal != part {
			return nil, false
		}
	}
	return params, true
}

// Params lists the wildcard names in template order.
func (p *Pattern) Params() []string {
	if p == nil {
		return nil
	}
	var names []string
	for _, seg := range p.segments {
		if seg.param != "" {
			names = append(names, seg.param)
		}
	}
	return names
}

func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.raw
}
