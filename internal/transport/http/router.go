package httptransport

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"plantid-bot-go/internal/platform/logging"
)

// TokenHeader carries the shared key checked against server.token.
const TokenHeader = "Token"

// Options configures the HTTP router builder.
type Options struct {
	Logger logging.Interface
	// Debug switches gin into debug mode.
	Debug bool
	// Token, when set, is required on every /api request.
	Token string
}

// Router bundles together the gin engine and common route groups.
type Router struct {
	Engine *gin.Engine
	API    *gin.RouterGroup
}

// Build constructs a gin engine pre-configured with logging, recovery,
// CORS and the optional token check.
func Build(opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop{}
	}

	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggingMiddleware(logger))

	engine.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			TokenHeader,
		},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api := engine.Group("/api")
	if opts.Token != "" {
		api.Use(tokenMiddleware(opts.Token, logger))
	}

	return &Router{
		Engine: engine,
		API:    api,
	}
}

func loggingMiddleware(logger logging.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		if status >= http.StatusInternalServerError {
			logger.Error("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, duration)
			return
		}
		logger.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, duration)
	}
}

// tokenMiddleware accepts the key from the Token header or a bearer
// Authorization header.
func tokenMiddleware(token string, logger logging.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(TokenHeader)
		if got == "" {
			if auth := c.GetHeader("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
				got = auth[7:]
			}
		}
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			logger.Warn("rejected %s %s from %s: bad token", c.Request.Method, c.Request.URL.Path, c.ClientIP())
			RespondError(c, http.StatusUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
