package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"github.com/google/uuid"

	"todoclient/internal/view"
)

// TaskRef identifies a task either by its 1-based position in the full list,
// as numbered by `todo list`, or by its server-issued id.
type TaskRef struct {
	Pos int    // 0 if the task is referenced by id
	ID  string // as given on the command line
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a single task reference.
//
// Parsing rules:
// 1. An all-digit arg → position reference
// 2. Any other non-empty arg → id reference, looked up by Resolve
func ParseTaskRef(arg string) (TaskRef, error) {
	if arg == "" {
		return TaskRef{}, fmt.Errorf("invalid task reference: %q", arg)
	}
	if isAllDigits(arg) {
		pos, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Pos: pos}, nil
	}
	return TaskRef{ID: arg}, nil
}

// ParseTaskRefs parses one task reference per arg.
func ParseTaskRefs(args []string) ([]TaskRef, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	refs := make([]TaskRef, 0, len(args))
	for _, arg := range args {
		ref, err := ParseTaskRef(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Resolve finds the referenced node among nodes, which must be the full list
// in display order. Ids match exactly; ids that are uuids also match in any
// of the uuid spellings.
func (r TaskRef) Resolve(nodes []view.Node) (view.Node, error) {
	if r.ID == "" {
		if r.Pos < 1 || r.Pos > len(nodes) {
			return view.Node{}, fmt.Errorf("task number out of range: %d", r.Pos)
		}
		return nodes[r.Pos-1], nil
	}

	for _, n := range nodes {
		if n.ID == r.ID {
			return n, nil
		}
	}
	if want, err := uuid.Parse(r.ID); err == nil {
		for _, n := range nodes {
			if got, err := uuid.Parse(n.ID); err == nil && got == want {
				return n, nil
			}
		}
	}
	return view.Node{}, fmt.Errorf("task not found: %s", r.ID)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
