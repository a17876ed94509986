package middleware

import (
	"net/http"

	"go-attendpay/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantIdentity resolves the acting company and employee from the gateway
// headers. Authentication happens upstream; this service only trusts the
// identity the gateway already verified.
func TenantIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetHeader("X-Company-ID")
		if _, err := uuid.Parse(companyID); err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "missing or invalid X-Company-ID header", nil)
			c.Abort()
			return
		}

		employeeID := c.GetHeader("X-Employee-ID")
		if employeeID != "" {
			if _, err := uuid.Parse(employeeID); err != nil {
				response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid X-Employee-ID header", nil)
				c.Abort()
				return
			}
		}

		c.Set("company_id", companyID)
		c.Set("employee_id", employeeID)
		c.Next()
	}
}
