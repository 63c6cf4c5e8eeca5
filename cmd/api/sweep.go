package main

import (
	"github.com/GunarsK-portfolio/paper-repository/internal/database"
	"github.com/GunarsK-portfolio/paper-repository/internal/jobs"
	"github.com/GunarsK-portfolio/paper-repository/internal/repository"
	"github.com/GunarsK-portfolio/paper-repository/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&SweepCommand)
}

var SweepCommand = cobra.Command{
	Use:   "sweep",
	Short: "Remove orphaned uploads once",
	Long:  "Remove uploaded files that no paper references and that are older than ORPHAN_GRACE_PERIOD",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg, log)
		if err != nil {
			return err
		}
		defer database.Close(db)

		store, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix)
		if err != nil {
			return err
		}

		janitor := jobs.NewJanitor(repository.NewPaperRepository(db), store, cfg.OrphanGracePeriod, nil, log)
		removed, err := janitor.Sweep(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("<%d> orphaned files removed\n", removed)
		return nil
	},
}
