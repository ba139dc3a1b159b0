package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/config"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitLoggerProduction(t *testing.T) {
	cfg := &config.Config{ServiceName: "test", Server: config.ServerConfig{Env: "production"}, Log: config.LogConfig{Level: "warn"}}
	if err := InitLogger(cfg); err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Errorf("info should be disabled at warn level")
	}
}

func TestFromContextFallbacks(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if FromContext(c) == nil {
		t.Fatal("FromContext returned nil without a stored logger")
	}

	stored := zap.NewNop().With(zap.String("k", "v"))
	c.SetRequest(req.WithContext(WithLogger(context.Background(), stored)))
	if FromContext(c) != stored {
		t.Errorf("FromContext did not return the logger stored in the request context")
	}

	echoStored := zap.NewNop()
	c.Set("logger", echoStored)
	if FromContext(c) != echoStored {
		t.Errorf("FromContext did not prefer the echo context logger")
	}
}
