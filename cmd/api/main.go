// Package main is the entry point for the paper repository service.
package main

import (
	"os"

	_ "github.com/GunarsK-portfolio/paper-repository/docs"
	"github.com/GunarsK-portfolio/paper-repository/internal/config"
	"github.com/GunarsK-portfolio/paper-repository/internal/logger"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// flags
	envFile string

	cfg *config.Config
	log *logrus.Logger
)

func init() {
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// RootCmd loads configuration shared by every subcommand.
var RootCmd = cobra.Command{
	Use:           "paper-repository",
	Short:         "Research paper repository service",
	Long:          "Submission, moderation and search of research papers",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing dotenv file is fine, the environment may be set already
		_ = godotenv.Load(envFile)

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		log = logger.New(cfg.Environment, cfg.LogLevel)
		return nil
	},
}

// @title Research Paper Repository API
// @version 1.0
// @description Submission, moderation and search of research papers
// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := RootCmd.Execute(); err != nil {
		if log != nil {
			log.WithError(err).Error("command failed")
		} else {
			RootCmd.PrintErrln("Error:", err)
		}
		os.Exit(1)
	}
}
