package domain

import (
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// ValidSnowflake reports whether raw is a Discord snowflake id.
func ValidSnowflake(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	id, err := snowflake.Parse(raw)
	return err == nil && id != 0
}

// ValidRoleID accepts Discord role ids and dashboard-created custom_ ids.
func ValidRoleID(raw string) bool {
	if strings.HasPrefix(raw, CustomRolePrefix) {
		return len(raw) > len(CustomRolePrefix)
	}
	return ValidSnowflake(raw)
}
