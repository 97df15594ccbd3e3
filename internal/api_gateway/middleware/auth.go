package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

const credentialKey = "wallet_credential"

// TokenVerifier turns a bearer token into a credential.
type TokenVerifier interface {
	Verify(token string) (wallet.Credential, error)
}

// Auth resolves the Authorization header into a wallet.Credential. A request without
// the header proceeds with the zero credential; a malformed or invalid token is
// rejected with 401.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			SetCredential(c, wallet.Credential{})
			c.Next()
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortUnauthorized(c, "Malformed Authorization header")
			return
		}

		cred, err := verifier.Verify(token)
		if err != nil {
			_ = c.Error(err)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		SetCredential(c, cred)
		c.Next()
	}
}

// SetCredential stores the credential handlers read through GetCredential.
func SetCredential(c *gin.Context, cred wallet.Credential) {
	c.Set(credentialKey, cred)
}

// GetCredential returns the credential resolved by Auth, the zero credential if none.
func GetCredential(c *gin.Context) wallet.Credential {
	cred, _ := credentialFromGin(c)
	return cred
}

func credentialFromGin(c *gin.Context) (wallet.Credential, bool) {
	v, ok := c.Get(credentialKey)
	if !ok {
		return wallet.Credential{}, false
	}
	cred, ok := v.(wallet.Credential)
	return cred, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}
