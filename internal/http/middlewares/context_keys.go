package middlewares

const (
	CtxRequestID = "request_id"
	CtxLocale    = "locale"
)
