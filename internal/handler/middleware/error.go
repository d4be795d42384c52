package middleware

import (
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacompressor/internal/dto"
)

// Recovery turns handler panics and errors attached with c.Error into a JSON
// 500 unless the handler already wrote a response.
func Recovery() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			zlog.Logger.Error().
				Str("panic", fmt.Sprint(r)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("ops handler panicked")
			abortInternal(c)
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		zlog.Logger.Error().
			Str("errors", c.Errors.String()).
			Str("path", c.Request.URL.Path).
			Msg("ops handler failed")
		abortInternal(c)
	}
}

func abortInternal(c *ginext.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
