package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig holds configuration for Swagger endpoint protection
type SwaggerConfig struct {
	// Enabled controls whether the Swagger UI is served at all
	Enabled bool
	// AllowedIPs is an optional IP whitelist (CIDR notation supported)
	AllowedIPs []string
}

// SwaggerProtection guards the Swagger UI. When disabled it answers 404;
// when an IP whitelist is configured, only matching clients get through.
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	var allowedNets []*net.IPNet
	var allowedIPs []net.IP
	for _, ipStr := range cfg.AllowedIPs {
		if strings.Contains(ipStr, "/") {
			if _, network, err := net.ParseCIDR(ipStr); err == nil {
				allowedNets = append(allowedNets, network)
			}
		} else if ip := net.ParseIP(ipStr); ip != nil {
			allowedIPs = append(allowedIPs, ip)
		}
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		if len(allowedNets) == 0 && len(allowedIPs) == 0 {
			c.Next()
			return
		}

		clientIP := net.ParseIP(c.ClientIP())
		if clientIP == nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		for _, ip := range allowedIPs {
			if ip.Equal(clientIP) {
				c.Next()
				return
			}
		}
		for _, network := range allowedNets {
			if network.Contains(clientIP) {
				c.Next()
				return
			}
		}

		c.AbortWithStatus(http.StatusForbidden)
	}
}
