package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInit(t *testing.T) {
	prevLevel, prevLogger := zerolog.GlobalLevel(), log.Logger
	defer func() {
		zerolog.SetGlobalLevel(prevLevel)
		log.Logger = prevLogger
	}()

	var buf bytes.Buffer
	Init("warn", &buf)
	log.Info().Msg("quiet")
	log.Warn().Str("service", "net-vm").Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("Info logged at warn level: %s", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "net-vm") {
		t.Errorf("Warning missing from output: %s", out)
	}

	Init("nonsense", &buf)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level fallback, got %s", zerolog.GlobalLevel())
	}
}
