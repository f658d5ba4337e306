package app

import "fmt"

// Reason classifies why an application could not be loaded
type Reason string

const (
	ReasonInvalidReference Reason = "invalid_reference"
	ReasonModuleNotFound   Reason = "module_not_found"
	ReasonAttrNotFound     Reason = "attribute_not_found"
	ReasonInitFailed       Reason = "init_failed"
)

// LoadError reports that an application reference could not be turned into
// a running application
type LoadError struct {
	Ref    string
	Reason Reason
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("error loading application %q (%s): %v", e.Ref, e.Reason, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
