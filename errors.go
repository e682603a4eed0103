package treectx

import "fmt"

// NotFoundError is returned when a resolve finds no binding for a key on
// any live ancestor and the key declared no default.
type NotFoundError struct {
	Key  string
	Node NodeID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no binding for key %q visible from node %d", e.Key, e.Node)
}

// UnknownActionError is returned by a reducer handed an action kind it does
// not recognize. The dispatch that produced it leaves state unchanged.
type UnknownActionError struct {
	Kind string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action kind %q", e.Kind)
}

// DuplicateKeyError is returned by Compose when two entries carry the same
// binding key. The composition establishes nothing.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate binding key %q in composition", e.Key)
}

// DeadNodeError is returned by operations addressing a node that was
// removed from the tree, or that never existed.
type DeadNodeError struct {
	Node NodeID
}

func (e *DeadNodeError) Error() string {
	return fmt.Sprintf("node %d is not alive", e.Node)
}

// BindingTypeError is returned by the typed resolve helpers when the value
// declared under a key does not match the key's type parameter.
type BindingTypeError struct {
	Key  string
	Want string
	Got  string
}

func (e *BindingTypeError) Error() string {
	return fmt.Sprintf("binding %q holds %s, not %s", e.Key, e.Got, e.Want)
}
