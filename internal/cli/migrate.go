package cli

import (
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/dtroode/jobboard/database"
	"github.com/dtroode/jobboard/internal/config"
)

const dsnFlag = "dsn"

func newMigrateCommand() *cobra.Command {
	flags := map[string]cobraflags.Flag{
		dsnFlag: &cobraflags.StringFlag{
			Name:  dsnFlag,
			Value: "",
			Usage: "Postgres DSN; defaults to DATABASE_DSN",
		},
	}

	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply the embedded database migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(database.CommandUp), string(database.CommandDown), string(database.CommandStatus)},
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := database.ParseCommand(args[0])
			if err != nil {
				return err
			}

			dsn := flags[dsnFlag].GetString()
			if dsn == "" {
				cfg, err := config.NewConfig()
				if err != nil {
					return err
				}
				dsn = cfg.Database.DSN
			}

			return database.Run(cmd.Context(), dsn, command)
		},
	}

	cobraflags.RegisterMap(cmd, flags)
	return cmd
}
