package domain

import "strings"

type ActionKind string

const (
	ActionWarn    ActionKind = "warn"
	ActionMute    ActionKind = "mute"
	ActionTimeout ActionKind = "timeout"
	ActionKick    ActionKind = "kick"
	ActionBan     ActionKind = "ban"
	ActionUnban   ActionKind = "unban"
	ActionRevoke  ActionKind = "revoke"
)

var punishmentKinds = map[ActionKind]struct{}{
	ActionWarn:    {},
	ActionMute:    {},
	ActionTimeout: {},
	ActionKick:    {},
	ActionBan:     {},
}

func ParseActionKind(raw string) (ActionKind, bool) {
	kind := ActionKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case ActionWarn, ActionMute, ActionTimeout, ActionKick, ActionBan, ActionUnban, ActionRevoke:
		return kind, true
	}
	return "", false
}

// IsPunishment reports whether kind can be recorded as a punishment.
func (k ActionKind) IsPunishment() bool {
	_, ok := punishmentKinds[k]
	return ok
}

// Enforceable reports whether the platform has an enforcement call for kind.
func (k ActionKind) Enforceable() bool {
	return k == ActionBan || k == ActionKick || k == ActionTimeout || k == ActionMute
}
