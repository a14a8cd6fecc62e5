package middleware

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/logging/logtest"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	cleanup := logtest.Init()
	code := m.Run()
	cleanup()
	os.Exit(code)
}
