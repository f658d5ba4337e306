package app

import (
	"fmt"
	"strings"
)

// Reference identifies an application object as module:attribute
type Reference struct {
	Module string
	Attr   string
}

// ParseReference parses "module:attribute". Both parts are required.
func ParseReference(s string) (Reference, error) {
	module, attr, ok := strings.Cut(s, ":")
	module = strings.TrimSpace(module)
	attr = strings.TrimSpace(attr)
	if !ok || module == "" || attr == "" || strings.Contains(attr, ":") {
		return Reference{}, &LoadError{
			Ref:    s,
			Reason: ReasonInvalidReference,
			Err:    fmt.Errorf("reference %q must be in format \"<module>:<attribute>\"", s),
		}
	}
	return Reference{Module: module, Attr: attr}, nil
}

// String returns the module:attribute form
func (r Reference) String() string {
	return r.Module + ":" + r.Attr
}
