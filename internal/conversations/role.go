package conversations

import (
	"fmt"
	"strings"
)

// Role identifies the author of a ledger message. Closed set.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
	RoleSystem    Role = "SYSTEM"
)

// InvalidRoleError reports a role string outside the closed set.
type InvalidRoleError struct {
	Candidate string
}

func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("invalid role %q", e.Candidate)
}

// ParseRole matches candidate case-insensitively against the closed set.
func ParseRole(candidate string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(candidate))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAssistant:
		return RoleAssistant, nil
	case RoleSystem:
		return RoleSystem, nil
	}
	return "", &InvalidRoleError{Candidate: candidate}
}
