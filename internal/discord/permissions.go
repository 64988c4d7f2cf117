package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/remindme/pkg/cmd"
)

// Authorization tokens are Discord permission flag names, e.g. MANAGE_MESSAGES.
var permissionBits = map[string]int64{
	"CREATE_INSTANT_INVITE":    discordgo.PermissionCreateInstantInvite,
	"KICK_MEMBERS":             discordgo.PermissionKickMembers,
	"BAN_MEMBERS":              discordgo.PermissionBanMembers,
	"ADMINISTRATOR":            discordgo.PermissionAdministrator,
	"MANAGE_CHANNELS":          discordgo.PermissionManageChannels,
	"MANAGE_GUILD":             discordgo.PermissionManageGuild,
	"ADD_REACTIONS":            discordgo.PermissionAddReactions,
	"VIEW_AUDIT_LOG":           discordgo.PermissionViewAuditLogs,
	"PRIORITY_SPEAKER":         discordgo.PermissionVoicePrioritySpeaker,
	"STREAM":                   discordgo.PermissionVoiceStreamVideo,
	"VIEW_CHANNEL":             discordgo.PermissionViewChannel,
	"SEND_MESSAGES":            discordgo.PermissionSendMessages,
	"SEND_TTS_MESSAGES":        discordgo.PermissionSendTTSMessages,
	"MANAGE_MESSAGES":          discordgo.PermissionManageMessages,
	"EMBED_LINKS":              discordgo.PermissionEmbedLinks,
	"ATTACH_FILES":             discordgo.PermissionAttachFiles,
	"READ_MESSAGE_HISTORY":     discordgo.PermissionReadMessageHistory,
	"MENTION_EVERYONE":         discordgo.PermissionMentionEveryone,
	"USE_EXTERNAL_EMOJIS":      discordgo.PermissionUseExternalEmojis,
	"VIEW_GUILD_INSIGHTS":      discordgo.PermissionViewGuildInsights,
	"CONNECT":                  discordgo.PermissionVoiceConnect,
	"SPEAK":                    discordgo.PermissionVoiceSpeak,
	"MUTE_MEMBERS":             discordgo.PermissionVoiceMuteMembers,
	"DEAFEN_MEMBERS":           discordgo.PermissionVoiceDeafenMembers,
	"MOVE_MEMBERS":             discordgo.PermissionVoiceMoveMembers,
	"USE_VAD":                  discordgo.PermissionVoiceUseVAD,
	"CHANGE_NICKNAME":          discordgo.PermissionChangeNickname,
	"MANAGE_NICKNAMES":         discordgo.PermissionManageNicknames,
	"MANAGE_ROLES":             discordgo.PermissionManageRoles,
	"MANAGE_WEBHOOKS":          discordgo.PermissionManageWebhooks,
	"USE_APPLICATION_COMMANDS": discordgo.PermissionUseApplicationCommands,
	"REQUEST_TO_SPEAK":         discordgo.PermissionVoiceRequestToSpeak,
	"MANAGE_EVENTS":            discordgo.PermissionManageEvents,
	"MANAGE_THREADS":           discordgo.PermissionManageThreads,
	"CREATE_PUBLIC_THREADS":    discordgo.PermissionCreatePublicThreads,
	"CREATE_PRIVATE_THREADS":   discordgo.PermissionCreatePrivateThreads,
	"USE_EXTERNAL_STICKERS":    discordgo.PermissionUseExternalStickers,
	"SEND_MESSAGES_IN_THREADS": discordgo.PermissionSendMessagesInThreads,
	"MODERATE_MEMBERS":         discordgo.PermissionModerateMembers,
}

// PermissionBit returns the permission bit for an authorization token.
// Token matching ignores case.
func PermissionBit(a cmd.Authorization) (int64, bool) {
	bit, ok := permissionBits[strings.ToUpper(strings.TrimSpace(string(a)))]
	return bit, ok
}

// Allows reports whether a member holding perms satisfies a. Administrators
// satisfy every token; unknown tokens are never satisfied.
func Allows(perms int64, a cmd.Authorization) bool {
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	bit, ok := PermissionBit(a)
	return ok && perms&bit == bit
}
