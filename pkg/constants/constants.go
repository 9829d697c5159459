package constants

type contextKey string

const (
	TxKey      contextKey = "tx"
	PoolKey    contextKey = "pool"
	LoggerKey  contextKey = "logger"
	ParamsKey  contextKey = "params"
	ClaimsKey  contextKey = "claims"
	TokenKey   contextKey = "token"
	RequestKey contextKey = "request-id"
)
