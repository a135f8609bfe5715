package application

import (
	"os"
	"testing"

	"nexus/config"
)

func TestMain(m *testing.M) {
	config.SetTestConfig(config.NewTestConfig())
	_ = config.Get()

	os.Exit(m.Run())
}
