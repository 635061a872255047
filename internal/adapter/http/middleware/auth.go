package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"workops/internal/auth"
	"workops/internal/core/domain"
	"workops/pkg/apierrors"
)

const principalCtxKey = "principal"

// accessTokenQueryParam lets websocket clients authenticate: dialers
// cannot always set headers, so the realtime path accepts the token
// out-of-band.
const accessTokenQueryParam = "access_token"

// Authenticator validates bearer tokens and builds the request-scoped
// principal. Token issuance belongs to the identity provider; only
// consumption happens here.
type Authenticator struct {
	issuer    string
	audience  string
	secret    []byte
	clientIDs []string
}

func NewAuthenticator(issuer, audience string, secret []byte, clientIDs []string) *Authenticator {
	return &Authenticator{
		issuer:    issuer,
		audience:  audience,
		secret:    secret,
		clientIDs: clientIDs,
	}
}

// Authenticate aborts with a structured 401 body unless the request
// carries a valid bearer token. On success the normalized principal is
// stored on the context for handlers downstream.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			return a.secret, nil
		}, a.parserOptions()...)
		if err != nil {
			zap.L().Debug("token rejected", zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(principalCtxKey, auth.BuildPrincipal(claims, a.clientIDs))
		c.Next()
	}
}

// RequirePolicy aborts with a structured 403 body when the authenticated
// principal's roles do not satisfy the named policy.
func (a *Authenticator) RequirePolicy(policy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortUnauthorized(c)
			return
		}

		if !auth.Allowed(policy, principal) {
			lang := GetLang(c)
			c.AbortWithStatusJSON(
				http.StatusForbidden,
				apierrors.CreateAuthError(apierrors.AuthErrForbidden, apierrors.MsgForbidden, lang, c.Request.URL.Path),
			)
			return
		}

		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	value, exists := c.Get(principalCtxKey)
	if !exists {
		return domain.Principal{}, false
	}
	principal, ok := value.(domain.Principal)
	return principal, ok
}

func (a *Authenticator) parserOptions() []jwt.ParserOption {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}
	if a.audience != "" {
		options = append(options, jwt.WithAudience(a.audience))
	}
	return options
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	return c.Query(accessTokenQueryParam)
}

func abortUnauthorized(c *gin.Context) {
	lang := GetLang(c)
	c.AbortWithStatusJSON(
		http.StatusUnauthorized,
		apierrors.CreateAuthError(apierrors.AuthErrUnauthorized, apierrors.MsgUnauthorized, lang, c.Request.URL.Path),
	)
}
