package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/cricsim/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 20)
				convey.So(cfg.FamousDiscount, convey.ShouldEqual, 0.7)
				convey.So(cfg.BattingFamous, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CRICSIM_ADDR", ":8080")
			_ = os.Setenv("CRICSIM_QUEUE_SIZE", "500")
			_ = os.Setenv("CRICSIM_WORKER_COUNT", "3")
			_ = os.Setenv("CRICSIM_FAMOUS_DISCOUNT", "0.5")
			_ = os.Setenv("CRICSIM_EXTENDED_BOWLING", "true")
			_ = os.Setenv("CRICSIM_BATTING_FAMOUS", "V Kohli, MS Dhoni ,")
			_ = os.Setenv("CRICSIM_DATABASE_URL", "sqlite:///tmp/players.db")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.FamousDiscount, convey.ShouldEqual, 0.5)
				convey.So(cfg.ExtendedBowling, convey.ShouldBeTrue)
				convey.So(cfg.BattingFamous, convey.ShouldResemble, []string{"V Kohli", "MS Dhoni"})
				convey.So(cfg.DatabaseURL, convey.ShouldEqual, "sqlite:///tmp/players.db")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
default_limit: 10
max_limit: 50
bowling_famous:
  - JJ Bumrah
  - Rashid Khan
cors_origins:
  - https://example.org
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CRICSIM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 10)
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 50)
				convey.So(cfg.BowlingFamous, convey.ShouldResemble, []string{"JJ Bumrah", "Rashid Khan"})
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://example.org"})
				convey.So(cfg.CandidateLimit, convey.ShouldEqual, 1000) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nworker_count: 24\nmax_limit: 60\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CRICSIM_CONFIG", tmpFile)
			_ = os.Setenv("CRICSIM_ADDR", ":8080")
			_ = os.Setenv("CRICSIM_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")    // Overridden by env
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)  // Overridden by env
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 60)     // From file
			})
		})

		convey.Convey("When loading config with a .env file", func() {
			envFile := createTempFile("cricsim-*.env", "CRICSIM_LOG_LEVEL=debug\nCRICSIM_DEFAULT_LIMIT=7\n")
			defer func() { _ = os.Remove(envFile) }()

			_ = os.Setenv("CRICSIM_ENV_FILE", envFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then its values should be applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When the .env file does not exist", func() {
			_ = os.Setenv("CRICSIM_ENV_FILE", "/non/existent/.env")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CRICSIM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CRICSIM_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CRICSIM_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CRICSIM_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the discount from env is out of range", func() {
			_ = os.Setenv("CRICSIM_FAMOUS_DISCOUNT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation should reject it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"CRICSIM_CONFIG",
		"CRICSIM_ENV_FILE",
		"CRICSIM_ADDR",
		"CRICSIM_LOG_LEVEL",
		"CRICSIM_QUEUE_SIZE",
		"CRICSIM_WORKER_COUNT",
		"CRICSIM_DEFAULT_LIMIT",
		"CRICSIM_FAMOUS_DISCOUNT",
		"CRICSIM_EXTENDED_BOWLING",
		"CRICSIM_BATTING_FAMOUS",
		"CRICSIM_DATABASE_URL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	return createTempFile("cricsim-config-*.yaml", content)
}

func createTempFile(pattern, content string) string {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
