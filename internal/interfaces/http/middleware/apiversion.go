package middleware

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/shared/utils"
)

const (
	HeaderAPIVersion     = "X-API-Version"
	ContextKeyAPIVersion = "api_version"

	CurrentAPIVersion = 1
	MinAPIVersion     = 1
)

var acceptVersionRegex = regexp.MustCompile(`application/vnd\.customerly\.v(\d+)\+json`)

// APIVersion negotiates the API version from X-API-Version or a vendor
// Accept type. A client asking for a version this server does not speak
// gets a 400 instead of a silently different payload.
func APIVersion() gin.HandlerFunc {
	return func(c *gin.Context) {
		version, requested := requestedAPIVersion(c)
		if requested && (version < MinAPIVersion || version > CurrentAPIVersion) {
			utils.ErrorResponse(c, http.StatusBadRequest, "unsupported API version "+strconv.Itoa(version))
			c.Abort()
			return
		}
		if !requested {
			version = CurrentAPIVersion
		}
		c.Set(ContextKeyAPIVersion, version)
		c.Header(HeaderAPIVersion, strconv.Itoa(version))
		c.Next()
	}
}

func requestedAPIVersion(c *gin.Context) (int, bool) {
	if h := c.GetHeader(HeaderAPIVersion); h != "" {
		v, err := strconv.Atoi(h)
		if err != nil {
			return 0, true
		}
		return v, true
	}
	if m := acceptVersionRegex.FindStringSubmatch(c.GetHeader("Accept")); len(m) == 2 {
		v, _ := strconv.Atoi(m[1])
		return v, true
	}
	return 0, false
}
