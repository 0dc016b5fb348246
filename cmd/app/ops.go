package main

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func doXPGet(ctx context.Context, cfg cliConfig, guildID, userID string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "xp.get", map[string]any{"guild_id": guildID, "user_id": userID}, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodGet, "/api/guilds/"+url.PathEscape(guildID)+"/levels/"+url.PathEscape(userID), nil, out)
}

func doXPApply(ctx context.Context, cfg cliConfig, guildID, userID string, delta int64, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "xp.apply", map[string]any{"guild_id": guildID, "user_id": userID, "delta": delta}, out)
	}
	path := "/api/guilds/" + url.PathEscape(guildID) + "/levels/" + url.PathEscape(userID) + "/xp"
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, path, map[string]any{"delta": delta}, out)
}

func doPunishmentsList(ctx context.Context, cfg cliConfig, guildID, userID string, activeOnly bool, limit int, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "punishments.list", map[string]any{
			"guild_id":    guildID,
			"user_id":     userID,
			"active_only": activeOnly,
			"limit":       limit,
		}, out)
	}
	q := url.Values{}
	if userID != "" {
		q.Set("user_id", userID)
	}
	if activeOnly {
		q.Set("active", "true")
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/guilds/" + url.PathEscape(guildID) + "/punishments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodGet, path, nil, out)
}

func doPunishmentRevoke(ctx context.Context, cfg cliConfig, id uint, revokedBy string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "punishments.revoke", map[string]any{"id": id, "revoked_by": revokedBy}, out)
	}
	path := "/api/punishments/" + strconv.FormatUint(uint64(id), 10) + "/revoke"
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, path, map[string]any{"revoked_by": revokedBy}, out)
}

func doEffectiveCommands(ctx context.Context, cfg cliConfig, guildID string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "commands.effective", map[string]any{"guild_id": guildID}, out)
	}
	return newAPIClient(cfg.Server).request(ctx, http.MethodGet, "/api/guilds/"+url.PathEscape(guildID)+"/commands", nil, out)
}

func doEffectiveCommand(ctx context.Context, cfg cliConfig, guildID, name string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "commands.effective", map[string]any{"guild_id": guildID, "name": name}, out)
	}
	path := "/api/guilds/" + url.PathEscape(guildID) + "/commands/" + url.PathEscape(name)
	return newAPIClient(cfg.Server).request(ctx, http.MethodGet, path, nil, out)
}

func doLevelRolesSync(ctx context.Context, cfg cliConfig, guildID string, userIDs []string, apply bool, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "levels.sync", map[string]any{"guild_id": guildID, "user_ids": userIDs, "apply": apply}, out)
	}
	path := "/api/guilds/" + url.PathEscape(guildID) + "/level-roles/sync"
	return newAPIClient(cfg.Server).request(ctx, http.MethodPost, path, map[string]any{"user_ids": userIDs, "apply": apply}, out)
}
