package models

// ActionType is a bare token accepted on the command line.
type ActionType string

const (
	// ActionLint runs the kind's linter
	ActionLint ActionType = "lint"

	// ActionBuild builds the target
	ActionBuild ActionType = "build"

	// ActionRun runs the built target
	ActionRun ActionType = "run"

	// ActionRelease builds with release settings and implies build
	ActionRelease ActionType = "release"
)

// IsValid checks if the action type is valid
func (a ActionType) IsValid() bool {
	switch a {
	case ActionLint, ActionBuild, ActionRun, ActionRelease:
		return true
	default:
		return false
	}
}

// String returns the string representation of ActionType
func (a ActionType) String() string {
	return string(a)
}

// Actions is the set of phases requested for one invocation.
type Actions struct {
	Lint    bool
	Build   bool
	Run     bool
	Release bool
}

// ParseActions collects action tokens from args. Order does not matter
// and unknown tokens are ignored.
func ParseActions(args []string) Actions {
	var actions Actions
	for _, arg := range args {
		switch ActionType(arg) {
		case ActionLint:
			actions.Lint = true
		case ActionBuild:
			actions.Build = true
		case ActionRun:
			actions.Run = true
		case ActionRelease:
			actions.Release = true
		}
	}
	return actions
}

// WantsBuild reports whether the build phase runs. release implies build.
func (a Actions) WantsBuild() bool {
	return a.Build || a.Release
}

// Empty reports whether no phase was requested.
func (a Actions) Empty() bool {
	return !a.Lint && !a.WantsBuild() && !a.Run
}
