package security

// Translatable message keys carried by authentication outcomes. Clients map
// them to localized strings; the wire never carries raw prose. The keys are
// part of the public API and must stay stable, spelling included.
const (
	MsgPasswordInvalidCredentials = "security.messages.password_authenticaton.invalid_credentials"
	MsgPasswordEmpty              = "security.messages.password_authenticaton.password_is_empty"
	MsgPasswordNotVerified        = "security.messages.password_authenticaton.password_not_verified"
	MsgPasswordAuthenticated      = "security.messages.password_authenticaton.authenticated"

	MsgRefreshMissedToken   = "security.messages.refresh_authenticaton.missed_token"
	MsgRefreshInvalidToken  = "security.messages.refresh_authenticaton.invalid_token"
	MsgRefreshAuthenticated = "security.messages.refresh_authenticaton.authenticated"

	MsgTokenInvalidPayload = "security.messages.token_authenticaton.invalid_payload"

	MsgUserNotFound = "security.messages.user.not_found"
	MsgUserBanned   = "security.messages.user.banned"
	MsgUserNeedAuth = "security.messages.user.need_auth"
)
