package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/geocoder89/signup/internal/domain/signup"
	"github.com/gin-gonic/gin"
)

// BindRegistration reads and leniently decodes a registration body. Only a body
// that cannot be read or is not a JSON object is rejected here; wrong field
// types surface later as field validation failures.
func BindRegistration(ctx *gin.Context) (signup.Input, bool) {
	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondTooLarge(ctx)
			return signup.Input{}, false
		}

		RespondBadRequest(ctx, "Invalid request body", gin.H{"reason": "unreadable_body"})
		return signup.Input{}, false
	}

	in, err := signup.Decode(raw)
	if err != nil {
		RespondBadRequest(ctx, "Invalid request body", gin.H{"json": "invalid_json_syntax"})
		return signup.Input{}, false
	}

	return in, true
}
