package protocol

import (
	"encoding/json"
	"fmt"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
)

// Role identifies a participant in the conversation. The set is closed.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Roles lists every valid Role in declaration order.
func Roles() []Role {
	return []Role{RoleUser, RoleAssistant, RoleSystem}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// MarshalJSON rejects roles outside the closed set.
func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, mcperrors.EncodeFault("Role", fmt.Sprintf("unknown role %q", string(r)))
	}
	return json.Marshal(string(r))
}

func (r *Role) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, r.decode)
}

func (r *Role) decode(data []byte, path string) error {
	if shape := shapeOf(data); shape != shapeString {
		return mcperrors.TypeMismatch(path, shapeString, shape)
	}
	s, err := unquote(data)
	if err != nil {
		return err
	}
	role := Role(s)
	if !role.Valid() {
		return mcperrors.TypeMismatch(path, `role ("user", "assistant", "system")`, fmt.Sprintf("%q", s))
	}
	*r = role
	return nil
}

// Annotations let a producer tell the client who a value is meant for and
// how much it matters.
type Annotations struct {
	// Audience is the intended customer of the annotated value. Nil means
	// every audience.
	Audience []Role `json:"audience,omitzero"`

	// Priority describes how important the value is for operating the
	// server: 1 means effectively required, 0 means entirely optional.
	// Values outside [0, 1] are preserved as-is; see PriorityInRange.
	Priority *float32 `json:"priority,omitempty"`
}

// PriorityInRange reports whether Priority is absent or within [0, 1].
func (a Annotations) PriorityInRange() bool {
	if a.Priority == nil {
		return true
	}
	p := *a.Priority
	return p >= 0 && p <= 1
}

// HasAudience reports whether role is among the intended audience. An
// absent audience includes everyone.
func (a Annotations) HasAudience(role Role) bool {
	if a.Audience == nil {
		return true
	}
	for _, r := range a.Audience {
		if r == role {
			return true
		}
	}
	return false
}

func (a Annotations) MarshalJSON() ([]byte, error) {
	type annotations Annotations
	return json.Marshal(annotations(a))
}

func (a *Annotations) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, a.decode)
}

func (a *Annotations) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	var out Annotations
	items, ok, err := obj.optionalArray("audience")
	if err != nil {
		return err
	}
	if ok {
		out.Audience = make([]Role, len(items))
		for i, item := range items {
			if err := out.Audience[i].decode(item, indexPath(obj.at("audience"), i)); err != nil {
				return err
			}
		}
	}

	if out.Priority, err = obj.optionalFloat32("priority"); err != nil {
		return err
	}

	*a = out
	return nil
}

// Annotated is implemented by every type that carries its own optional
// Annotations. It is a capability, not a shared representation.
type Annotated interface {
	GetAnnotations() *Annotations
}

// decodeAnnotations reads the optional "annotations" member shared by all
// annotated types.
func decodeAnnotations(obj *wireObject) (*Annotations, error) {
	raw, ok, err := obj.lookup("annotations", shapeObject)
	if err != nil || !ok {
		return nil, err
	}
	var a Annotations
	if err := a.decode(raw, obj.at("annotations")); err != nil {
		return nil, err
	}
	return &a, nil
}
