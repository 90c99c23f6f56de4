package response

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/practiceboard-backend/internal/platform/apierr"
)

// RespondServiceError writes err using its mapped status and code.
func RespondServiceError(c *gin.Context, err error, fallbackCode string) {
	ae := apierr.From(err, fallbackCode)
	RespondError(c, ae.Status, ae.Code, ae.Err)
}
