package domain

// EffectiveCommandConfig merges a guild override onto the global definition
// field by field. It is recomputed on every read and never persisted.
func EffectiveCommandConfig(global CommandDefinition, override *GuildCommandOverride) EffectiveCommand {
	out := EffectiveCommand{
		Name:            global.Name,
		Description:     global.Description,
		Category:        global.Category,
		Enabled:         global.Enabled,
		CooldownSeconds: global.CooldownSeconds,
		Permissions:     copyStrings(global.Permissions),
	}
	if override == nil {
		return out
	}

	out.GuildID = override.GuildID
	out.UsageCount = override.UsageCount
	if override.Enabled != nil {
		out.Enabled = *override.Enabled
		out.Overridden = true
	}
	if override.CooldownSeconds != nil {
		out.CooldownSeconds = *override.CooldownSeconds
		out.Overridden = true
	}
	if override.Permissions != nil {
		out.Permissions = copyStrings(*override.Permissions)
		out.Overridden = true
	}
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
