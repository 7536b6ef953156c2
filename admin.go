// admin.go - privacy-conscious admin dashboard
package main

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/config"
)

const adminCookie = "admin_token"

// admin serves the dashboard over the analytics store.
type admin struct {
	store     *analytics.Store
	creds     config.Admin
	token     string
	retention time.Duration
	logger    *slog.Logger
}

// newAdmin generates a fresh session token. In debug mode missing
// credentials fall back to admin/admin123; in release mode login stays
// disabled until ADMIN_USERNAME and ADMIN_PASSWORD are set.
func newAdmin(store *analytics.Store, creds config.Admin, retention time.Duration, logger *slog.Logger) (*admin, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate admin token: %w", err)
	}

	if creds.Username == "" || creds.Password == "" {
		if gin.Mode() == gin.DebugMode {
			logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
			creds = config.Admin{Username: "admin", Password: "admin123"}
		} else {
			logger.Warn("admin credentials not configured, admin login disabled")
		}
	}

	logger.Info("admin access available", "path", "/admin/login")
	return &admin{store: store, creds: creds, token: token, retention: retention, logger: logger}, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (a *admin) checkCredentials(username, password string) bool {
	if a.creds.Username == "" || a.creds.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password)) == 1
	return userOK && passOK
}

// authMiddleware redirects to the login page unless the session cookie
// matches the current token.
func (a *admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *admin) register(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !a.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			a.logger.Warn("failed admin login attempt", "visitor", a.store.HashIP(c.ClientIP()))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"error": "Invalid credentials",
			})
			return
		}

		// Secure cookie (24 hours)
		c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", gin.Mode() == gin.ReleaseMode, true)
		a.logger.Info("admin login successful", "visitor", a.store.HashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(a.authMiddleware())

	g.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			a.logger.Error("failed to load admin stats", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			a.logger.Error("failed to load visitors", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	g.POST("/privacy/cleanup", func(c *gin.Context) {
		go a.cleanup(context.Background())
		c.JSON(http.StatusAccepted, gin.H{"message": "Privacy cleanup initiated"})
	})

	g.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("admin stats exported", "visitor", a.store.HashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}

// cleanup removes visitor records past the retention window.
func (a *admin) cleanup(ctx context.Context) {
	if _, err := a.store.Cleanup(ctx, a.retention); err != nil {
		a.logger.Error("privacy cleanup failed", "error", err)
	}
}

// runCleanup prunes old visitor data now and then once a day until ctx ends.
func (a *admin) runCleanup(ctx context.Context) {
	a.cleanup(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.cleanup(ctx)
		}
	}
}
