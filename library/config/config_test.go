package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad(t *testing.T) {
	t.Setenv("LIBRARY_HTTP_PORT", "9090")
	t.Setenv("KAFKA_ADDRS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("DB_HOST", "pg")

	cfg, err := Load(
		WithLogLevel(zapcore.DebugLevel),
		WithWriteTimeout(time.Minute),
		WithUploadsDir("/var/lib/library"),
	)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Addrs)
	require.True(t, cfg.Kafka.Enabled())
	require.Equal(t, "pg", cfg.Database.Host)
	require.Equal(t, zapcore.DebugLevel, cfg.Log.LogLevel)
	require.Equal(t, "/var/lib/library", cfg.Uploads.Dir)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KAFKA_ADDRS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "uploads", cfg.Uploads.Dir)
	require.Equal(t, zapcore.InfoLevel, cfg.Log.LogLevel)
	require.False(t, cfg.Kafka.Enabled())
}
