package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scimatch/scimatch/ai"
	"github.com/scimatch/scimatch/ai/metrics"
	"github.com/scimatch/scimatch/internal/profile"
	"github.com/scimatch/scimatch/internal/version"
	"github.com/scimatch/scimatch/server"
	"github.com/scimatch/scimatch/store"
	"github.com/scimatch/scimatch/store/db"
)

const (
	greetingBanner = "scimatch"
)

var (
	rootCmd = &cobra.Command{
		Use:     "scimatch",
		Short:   "Conversational professor matchmaking service",
		Version: version.String(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Load .env from the working directory when present.
			_ = godotenv.Load()
			return nil
		},
		Run: func(_ *cobra.Command, _ []string) {
			instanceProfile := &profile.Profile{
				Mode:        viper.GetString("mode"),
				Addr:        viper.GetString("addr"),
				Port:        viper.GetInt("port"),
				Data:        viper.GetString("data"),
				Driver:      viper.GetString("driver"),
				DSN:         viper.GetString("dsn"),
				InstanceURL: viper.GetString("instance-url"),
				Version:     version.GetCurrentVersion(viper.GetString("mode")),
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				panic(err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				cancel()
				slog.Error("failed to create db driver", "error", err)
				return
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			if err := storeInstance.Migrate(ctx); err != nil {
				cancel()
				slog.Error("failed to migrate", "error", err)
				return
			}

			if seedPath := viper.GetString("seed"); seedPath != "" {
				n, err := storeInstance.SeedProfessors(ctx, seedPath)
				if err != nil {
					cancel()
					slog.Error("failed to seed professor directory", "error", err)
					return
				}
				if n > 0 {
					slog.Info("professor directory seeded", "count", n)
				}
			}

			exporter := metrics.NewExporter(metrics.DefaultConfig())
			engine, llmService, err := ai.NewEngineFromProfile(instanceProfile, storeInstance, exporter)
			if err != nil {
				cancel()
				slog.Error("failed to build dialog engine", "error", err)
				return
			}
			if llmService != nil {
				// Best effort: pre-open the provider connection so the first
				// turn does not pay the handshake.
				go func() {
					warmupCtx, warmupCancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer warmupCancel()
					llmService.Warmup(warmupCtx)
				}()
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance, engine, exporter)
			if err != nil {
				cancel()
				slog.Error("failed to create server", "error", err)
				return
			}

			c := make(chan os.Signal, 1)
			// Trigger graceful shutdown on SIGINT or SIGTERM.
			signal.Notify(c, terminationSignals...)

			if err := s.Start(ctx); err != nil {
				if !errors.Is(err, http.ErrServerClosed) {
					slog.Error("failed to start server", "error", err)
					cancel()
				}
			}

			printGreetings(instanceProfile)

			go func() {
				<-c
				s.Shutdown(ctx)
				cancel()
			}()

			<-ctx.Done()
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 28084)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 28084, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")
	rootCmd.PersistentFlags().String("instance-url", "", "the url of your scimatch instance")
	rootCmd.PersistentFlags().String("seed", "", "path to a professor seed JSON file")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "instance-url", "seed"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("scimatch")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("%s %s started successfully!\n", greetingBanner, profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if profile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Database: %s\n", profile.DSN)
		}
	}
	if version.BuildTime != "unknown" {
		fmt.Printf("Build: %s (%s)\n", version.String(), version.BuildTime)
	}

	fmt.Printf("Data directory: %s\n", profile.Data)
	fmt.Printf("Database driver: %s\n", profile.Driver)
	fmt.Printf("Mode: %s\n", profile.Mode)
	fmt.Printf("Listening on %s:%d\n", profile.Addr, profile.Port)
	if !profile.IsAIEnabled() {
		fmt.Println("LLM provider not configured: running on rule fallbacks")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to execute command", "error", err)
		os.Exit(1)
	}
}
