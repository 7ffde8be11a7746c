package gearbox

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type targetKind int

const (
	targetHead targetKind = iota
	targetBase
	targetRelative
	targetVersion
)

// target is a parsed revision identifier.
type target struct {
	kind    targetKind
	steps   int   // signed, targetRelative only
	version int64 // targetVersion only
}

// parseTarget understands head, heads, base, relative steps like +2 or -1
// and absolute versions.
func parseTarget(s string) (target, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "head", "heads":
		return target{kind: targetHead}, nil
	case "base":
		return target{kind: targetBase}, nil
	case "":
		return target{}, errors.New("empty revision")
	}

	if s[0] == '+' || s[0] == '-' {
		steps, err := strconv.Atoi(s)
		if err != nil || steps == 0 {
			return target{}, errors.Errorf("invalid relative revision %q", s)
		}
		return target{kind: targetRelative, steps: steps}, nil
	}

	version, err := strconv.ParseInt(s, 10, 64)
	if err != nil || version < 0 {
		return target{}, errors.Errorf("invalid revision %q", s)
	}
	return target{kind: targetVersion, version: version}, nil
}
