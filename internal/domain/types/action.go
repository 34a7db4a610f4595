package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionRegister     = "register_user"
	ActionLogin        = "login_user"
	ActionRefreshToken = "refresh_token"
	ActionLogout       = "logout_user"

	ActionMintAccessToken    = "mint_access_token"
	ActionMintRefreshToken   = "mint_refresh_token"
	ActionVerifyAccessToken  = "verify_access_token"
	ActionVerifyRefreshToken = "verify_refresh_token"
	ActionRevokeRefreshToken = "revoke_refresh_token"
)
