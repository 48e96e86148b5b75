package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func TestRouterSetup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("registers routes under the versioned prefix", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		partners := NewDomainGroup("partners", "/partners")
		partners.GET("", ok)
		partners.POST("", ok)
		partners.GET("/:external_id", ok)
		r.Register(partners)
		r.Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/partners/ext-1", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partners", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("custom api version", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, WithAPIVersion("v2"))

		group := NewDomainGroup("system", "/system")
		group.GET("/info", ok)
		r.Register(group)
		r.Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/system/info", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("group middleware runs before handlers", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		called := false
		group := NewDomainGroup("sync", "/sync")
		group.Use(func(c *gin.Context) {
			called = true
			c.Next()
		})
		group.POST("", ok)
		r.Register(group)
		r.Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})
}
