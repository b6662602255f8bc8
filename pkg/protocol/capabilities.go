package protocol

import (
	"encoding/json"
	"maps"
)

// RootsCapability describes the client's support for roots.
type RootsCapability struct {
	// ListChanged reports whether the client notifies when its list of
	// roots changes.
	ListChanged bool `json:"list_changed"`
}

func (r RootsCapability) MarshalJSON() ([]byte, error) {
	type rootsCapability RootsCapability
	return json.Marshal(rootsCapability(r))
}

func (r *RootsCapability) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, r.decode)
}

func (r *RootsCapability) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}
	listChanged, err := obj.requiredBool("list_changed")
	if err != nil {
		return err
	}
	r.ListChanged = listChanged
	return nil
}

// ClientCapabilities is what a client advertises. Every member is optional;
// an empty mapping is distinct from an absent one.
type ClientCapabilities struct {
	Roots        *RootsCapability          `json:"roots,omitempty"`
	Sampling     map[string]any            `json:"sampling,omitzero"`
	Experimental map[string]map[string]any `json:"experimental,omitzero"`
}

func (c ClientCapabilities) MarshalJSON() ([]byte, error) {
	type clientCapabilities ClientCapabilities
	c.Experimental = experimentalForWire(c.Experimental)
	return json.Marshal(clientCapabilities(c))
}

func (c *ClientCapabilities) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, c.decode)
}

func (c *ClientCapabilities) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	var out ClientCapabilities
	raw, ok, err := obj.lookup("roots", shapeObject)
	if err != nil {
		return err
	}
	if ok {
		out.Roots = &RootsCapability{}
		if err := out.Roots.decode(raw, obj.at("roots")); err != nil {
			return err
		}
	}
	if out.Sampling, err = obj.optionalMap("sampling"); err != nil {
		return err
	}
	if out.Experimental, err = obj.optionalNestedMap("experimental"); err != nil {
		return err
	}

	*c = out
	return nil
}

// ServerCapabilities is what a server advertises. A nil Tools slice means
// the server did not say; an empty one means it offers no tools.
type ServerCapabilities struct {
	Experimental map[string]map[string]any `json:"experimental,omitzero"`
	Tools        []Tool                    `json:"tools,omitzero"`
	Prompts      []ResourceTemplate        `json:"prompts,omitzero"`
}

// FindTool returns the first tool named name.
func (s ServerCapabilities) FindTool(name string) (Tool, bool) {
	for _, t := range s.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// DuplicateToolNames returns every tool name that appears more than once,
// in order of second appearance.
func (s ServerCapabilities) DuplicateToolNames() []string {
	seen := make(map[string]int, len(s.Tools))
	var dups []string
	for _, t := range s.Tools {
		seen[t.Name]++
		if seen[t.Name] == 2 {
			dups = append(dups, t.Name)
		}
	}
	return dups
}

func (s ServerCapabilities) MarshalJSON() ([]byte, error) {
	type serverCapabilities ServerCapabilities
	s.Experimental = experimentalForWire(s.Experimental)
	return json.Marshal(serverCapabilities(s))
}

// experimentalForWire writes a nil capability as an empty object; a bare
// null would not decode again. The caller's map is left untouched.
func experimentalForWire(m map[string]map[string]any) map[string]map[string]any {
	var out map[string]map[string]any
	for name, v := range m {
		if v != nil {
			continue
		}
		if out == nil {
			out = maps.Clone(m)
		}
		out[name] = map[string]any{}
	}
	if out == nil {
		return m
	}
	return out
}

func (s *ServerCapabilities) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, s.decode)
}

func (s *ServerCapabilities) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	var out ServerCapabilities
	if out.Experimental, err = obj.optionalNestedMap("experimental"); err != nil {
		return err
	}

	tools, ok, err := obj.optionalArray("tools")
	if err != nil {
		return err
	}
	if ok {
		out.Tools = make([]Tool, len(tools))
		for i, item := range tools {
			if err := out.Tools[i].decode(item, indexPath(obj.at("tools"), i)); err != nil {
				return err
			}
		}
	}

	prompts, ok, err := obj.optionalArray("prompts")
	if err != nil {
		return err
	}
	if ok {
		out.Prompts = make([]ResourceTemplate, len(prompts))
		for i, item := range prompts {
			if err := out.Prompts[i].decode(item, indexPath(obj.at("prompts"), i)); err != nil {
				return err
			}
		}
	}

	*s = out
	return nil
}

// Root is a directory or file the server may operate on.
type Root struct {
	Name        *string      `json:"name,omitempty"`
	URI         string       `json:"uri"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

func (r Root) GetAnnotations() *Annotations { return r.Annotations }

func (r Root) MarshalJSON() ([]byte, error) {
	type root Root
	return json.Marshal(root(r))
}

func (r *Root) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, r.decode)
}

func (r *Root) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	var out Root
	if out.Name, err = obj.optionalString("name"); err != nil {
		return err
	}
	if out.URI, err = obj.requiredString("uri"); err != nil {
		return err
	}
	if out.Annotations, err = decodeAnnotations(obj); err != nil {
		return err
	}

	*r = out
	return nil
}
