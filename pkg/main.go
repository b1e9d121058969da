package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	pkg "git.solsynth.dev/hypernet/circle/pkg/internal"
	"git.solsynth.dev/hypernet/circle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString("  ____ _          _\n / ___(_)_ __ ___| | ___\n| |   | | '__/ __| |/ _ \\\n| |___| | | | (__| |  __/\n \\____|_|_|  \\___|_|\\___|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Circle"), pkg.AppVersion)
	fmt.Printf("The social graph and interaction service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("An error occurred when loading .env file, skipped...")
	}

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("bind", "0.0.0.0:5000")
	viper.SetDefault("security.token_lifetime", "360h")
	viper.SetDefault("media.timeout", "30s")
	viper.SetDefault("media.folder", "circle")
	viper.SetDefault("cleanup.schedule", "@every 60m")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Panic().Err(err).Msg("An error occurred when loading settings.")
		}
		log.Warn().Msg("No settings file found, running with defaults and environment variables...")
	}

	if len(viper.GetString("security.token_secret")) == 0 {
		log.Fatal().Msg("Token secret is not configured, set security.token_secret or SECURITY_TOKEN_SECRET.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Configure media host
	if len(viper.GetString("media.cloud_name")) == 0 {
		log.Warn().Msg("Media host is not configured. Image related features will be disabled.")
	} else if host, err := services.NewCloudinaryHost(
		viper.GetString("media.cloud_name"),
		viper.GetString("media.api_key"),
		viper.GetString("media.api_secret"),
		viper.GetString("media.folder"),
	); err != nil {
		log.Error().Err(err).Msg("An error occurred when configuring media host. Image related features will be disabled.")
	} else {
		services.MediaHost = host
		log.Info().Msg("Media host configured.")
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(viper.GetString("cleanup.schedule"), services.DoAutoDatabaseCleanup); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling database cleanup.")
	}
	quartz.Start()

	// Server
	server := http.NewServer()
	go server.Listen()

	log.Info().Str("bind", viper.GetString("bind")).Msg("Circle is up and running.")

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server.")
	}
}
