// action.go
package droidkit

import (
	"strings"

	"github.com/arc-language/droidkit/pkg/arch"
)

// ActionKind identifies what a command line token asks for
type ActionKind int

const (
	ActionUsage ActionKind = iota
	ActionBuild
	ActionClean
	ActionVerify
	ActionDeploy
	ActionUndeploy
)

const (
	deployPrefix   = "deploy:"
	undeployPrefix = "clean:"
)

// Action is a parsed command line token
type Action struct {
	Kind ActionKind
	Arch arch.Architecture // Set for ActionDeploy and ActionUndeploy
}

// ParseAction interprets the single action token. An empty or unknown token
// means usage. "clean:<arch>" is a device-side undeploy, not a local clean;
// the name is kept for compatibility with existing workflows.
func ParseAction(token string) (Action, error) {
	switch {
	case token == "build":
		return Action{Kind: ActionBuild}, nil
	case token == "clean":
		return Action{Kind: ActionClean}, nil
	case token == "verify":
		return Action{Kind: ActionVerify}, nil
	case strings.HasPrefix(token, undeployPrefix):
		a, err := arch.Parse(strings.TrimPrefix(token, undeployPrefix))
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionUndeploy, Arch: a}, nil
	case strings.HasPrefix(token, deployPrefix):
		a, err := arch.Parse(strings.TrimPrefix(token, deployPrefix))
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionDeploy, Arch: a}, nil
	default:
		return Action{Kind: ActionUsage}, nil
	}
}

// String returns the action as it is written on the command line
func (a Action) String() string {
	switch a.Kind {
	case ActionBuild:
		return "build"
	case ActionClean:
		return "clean"
	case ActionVerify:
		return "verify"
	case ActionDeploy:
		return deployPrefix + a.Arch.String()
	case ActionUndeploy:
		return undeployPrefix + a.Arch.String()
	default:
		return "usage"
	}
}
