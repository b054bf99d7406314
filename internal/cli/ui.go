package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/jobboard/internal/access"
	"github.com/dtroode/jobboard/internal/board"
	"github.com/dtroode/jobboard/internal/client"
	"github.com/dtroode/jobboard/internal/config"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/mirror"
	"github.com/dtroode/jobboard/internal/model"
	"github.com/dtroode/jobboard/internal/session"
)

const (
	urlFlag         = "url"
	emailFlag       = "email"
	passwordFlag    = "password"
	roleFlag        = "role"
	titleFlag       = "title"
	descriptionFlag = "description"
)

func credentialFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		urlFlag: &cobraflags.StringFlag{
			Name:  urlFlag,
			Value: "",
			Usage: "API base URL; defaults to CLIENT_URL",
		},
		emailFlag: &cobraflags.StringFlag{
			Name:  emailFlag,
			Value: "",
			Usage: "Account email; defaults to CLIENT_EMAIL",
		},
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Value: "",
			Usage: "Account password; defaults to CLIENT_PASSWORD",
		},
	}
}

// page is one terminal screen. It gets a signed-in client and the
// resolved state of its view.
type page struct {
	use   string
	short string
	args  cobra.PositionalArgs
	view  access.View
	// owner resolves the company owning the viewed resource, if any.
	owner func(ctx context.Context, c *client.Client, args []string) (*uuid.UUID, error)
	extra map[string]cobraflags.Flag
	run   func(ctx context.Context, env *pageEnv, args []string) error
}

type pageEnv struct {
	client *client.Client
	state  session.State
	flags  map[string]cobraflags.Flag
	out    io.Writer
	logger *logger.Logger
}

func (e *pageEnv) flag(name string) string {
	return e.flags[name].GetString()
}

func newUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Terminal front-end, one subcommand per page",
	}

	cmd.AddCommand(newRegisterCommand(), newLoginCommand(), newLogoutCommand())
	for _, p := range pages() {
		cmd.AddCommand(p.command())
	}

	return cmd
}

type clientSettings struct {
	cfg      *config.Config
	email    string
	password string
}

func loadClientSettings(flags map[string]cobraflags.Flag) (*client.Client, clientSettings, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, clientSettings{}, err
	}

	baseURL := flags[urlFlag].GetString()
	if baseURL == "" {
		baseURL = cfg.Client.URL
	}
	s := clientSettings{cfg: cfg, email: flags[emailFlag].GetString(), password: flags[passwordFlag].GetString()}
	if s.email == "" {
		s.email = cfg.Client.Email
	}
	if s.password == "" {
		s.password = cfg.Client.Password
	}

	return client.New(baseURL, cfg.Client.Timeout), s, nil
}

func uiLogger(cfg *config.Config) *logger.Logger {
	return logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stderr)
}

func (p page) command() *cobra.Command {
	flags := credentialFlags()
	for name, f := range p.extra {
		flags[name] = f
	}

	cmd := &cobra.Command{
		Use:   p.use,
		Short: p.short,
		Args:  p.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			c, settings, err := loadClientSettings(flags)
			if err != nil {
				return err
			}
			log := uiLogger(settings.cfg)

			if settings.email != "" || settings.password != "" {
				if _, err := c.SignIn(ctx, settings.email, settings.password); err != nil {
					return err
				}
			}

			var owner *uuid.UUID
			if p.owner != nil && c.Session() != nil {
				owner, err = p.owner(ctx, c, args)
				if err != nil {
					return err
				}
			}

			state := session.NewResolver(c, log).Resolve(ctx, p.view, owner)
			if !state.Decision.Allowed {
				fmt.Fprintf(out, "redirect: %s\n", state.Decision.RedirectTo)
				return nil
			}

			return p.run(ctx, &pageEnv{client: c, state: state, flags: flags, out: out, logger: log}, args)
		},
	}

	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newRegisterCommand() *cobra.Command {
	flags := credentialFlags()
	flags[roleFlag] = &cobraflags.StringFlag{
		Name:  roleFlag,
		Value: string(model.RoleSeeker),
		Usage: "Profile role: usuario or empresa",
	}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account with its profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, settings, err := loadClientSettings(flags)
			if err != nil {
				return err
			}

			res, err := c.SignUp(cmd.Context(), settings.email, settings.password, model.Role(flags[roleFlag].GetString()))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered %s as %s\nredirect: %s\n", res.Profile.Email, res.Profile.Role, res.RedirectTo)
			return nil
		},
	}

	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newLoginCommand() *cobra.Command {
	flags := credentialFlags()

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print the landing page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, settings, err := loadClientSettings(flags)
			if err != nil {
				return err
			}

			res, err := c.SignIn(cmd.Context(), settings.email, settings.password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\nredirect: %s\n", res.User.Email, res.RedirectTo)
			return nil
		},
	}

	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newLogoutCommand() *cobra.Command {
	flags := credentialFlags()

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign in, then revoke the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, settings, err := loadClientSettings(flags)
			if err != nil {
				return err
			}

			if _, err := c.SignIn(cmd.Context(), settings.email, settings.password); err != nil {
				return err
			}
			if err := c.SignOut(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "signed out\nredirect: %s\n", access.RouteLogin)
			return nil
		},
	}

	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func parseUUIDArg(args []string, i int, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(args[i])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a UUID: %w", name, err)
	}
	return id, nil
}

func offerOwner(ctx context.Context, c *client.Client, args []string) (*uuid.UUID, error) {
	jobID, err := parseUUIDArg(args, 0, "job id")
	if err != nil {
		return nil, err
	}
	offer, err := c.GetOffer(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &offer.CompanyID, nil
}

func pages() []page {
	return []page{
		{
			use:   "company",
			short: "List the offers of the signed-in company",
			view:  access.ViewCompanyDashboard,
			run: func(ctx context.Context, env *pageEnv, _ []string) error {
				m := mirror.New(env.client, *env.state.Profile, env.logger)
				snap, err := m.Load(ctx, mirror.Filter{CompanyID: &env.state.Profile.ID})
				if err != nil {
					return err
				}
				return printOffers(env.out, snap, false)
			},
		},
		{
			use:   "create-job",
			short: "Post a job offer",
			view:  access.ViewCreateJob,
			extra: map[string]cobraflags.Flag{
				titleFlag:       &cobraflags.StringFlag{Name: titleFlag, Value: "", Usage: "Offer title"},
				descriptionFlag: &cobraflags.StringFlag{Name: descriptionFlag, Value: "", Usage: "Offer description"},
			},
			run: func(ctx context.Context, env *pageEnv, _ []string) error {
				m := mirror.New(env.client, *env.state.Profile, env.logger)
				offer, err := m.PostOffer(ctx, env.flag(titleFlag), env.flag(descriptionFlag))
				if err != nil {
					return err
				}
				fmt.Fprintf(env.out, "created %s\nredirect: %s\n", offer.ID, access.ViewCompanyDashboard)
				return nil
			},
		},
		{
			use:   "job <job-id>",
			short: "Show the status board of an owned offer",
			args:  cobra.ExactArgs(1),
			view:  access.ViewCompanyJob,
			owner: offerOwner,
			run: func(ctx context.Context, env *pageEnv, args []string) error {
				jobID, err := parseUUIDArg(args, 0, "job id")
				if err != nil {
					return err
				}
				offer, err := env.client.GetOffer(ctx, jobID)
				if err != nil {
					return err
				}
				v, err := board.New(env.client, jobID, env.logger).Load(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(env.out, "%s\n%s\n\n", offer.Title, offer.Description)
				return printBoard(env.out, v)
			},
		},
		{
			use:   "move <job-id> <user-id> <status>",
			short: "Move an applicant to another lane of the board",
			args:  cobra.ExactArgs(3),
			view:  access.ViewCompanyJob,
			owner: offerOwner,
			run: func(ctx context.Context, env *pageEnv, args []string) error {
				jobID, err := parseUUIDArg(args, 0, "job id")
				if err != nil {
					return err
				}
				userID, err := parseUUIDArg(args, 1, "user id")
				if err != nil {
					return err
				}
				b := board.New(env.client, jobID, env.logger)
				if _, err := b.Load(ctx); err != nil {
					return err
				}
				stored, err := b.Move(ctx, userID, model.Status(args[2]))
				if err != nil {
					return err
				}
				fmt.Fprintf(env.out, "%s -> %s\n", userID, stored.Status)
				return printBoard(env.out, b.View())
			},
		},
		{
			use:   "user",
			short: "List every offer, marking those applied to",
			view:  access.ViewUserDashboard,
			run: func(ctx context.Context, env *pageEnv, _ []string) error {
				m := mirror.New(env.client, *env.state.Profile, env.logger)
				snap, err := m.Load(ctx, mirror.Filter{})
				if err != nil {
					return err
				}
				return printOffers(env.out, snap, true)
			},
		},
		{
			use:   "apply <job-id>",
			short: "Apply to a job offer",
			args:  cobra.ExactArgs(1),
			view:  access.ViewUserDashboard,
			run: func(ctx context.Context, env *pageEnv, args []string) error {
				jobID, err := parseUUIDArg(args, 0, "job id")
				if err != nil {
					return err
				}
				m := mirror.New(env.client, *env.state.Profile, env.logger)
				if _, err := m.Load(ctx, mirror.Filter{}); err != nil {
					return err
				}
				app, err := m.Apply(ctx, jobID)
				if errors.Is(err, mirror.ErrAlreadyApplied) {
					fmt.Fprintln(env.out, "already applied")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(env.out, "applied to %s, status %s\n", app.JobID, app.Status)
				return nil
			},
		},
		{
			use:   "jobs",
			short: "List my applications",
			view:  access.ViewUserJobs,
			run: func(ctx context.Context, env *pageEnv, _ []string) error {
				m := mirror.New(env.client, *env.state.Profile, env.logger)
				snap, err := m.Load(ctx, mirror.Filter{})
				if err != nil {
					return err
				}
				return printApplications(env.out, snap.Applications)
			},
		},
		{
			use:   "profile",
			short: "Show the signed-in profile",
			view:  access.ViewProfile,
			run: func(_ context.Context, env *pageEnv, _ []string) error {
				printProfile(env.out, env.state)
				return nil
			},
		},
	}
}

// unknownRole stands in for the role of an identity without a profile.
const unknownRole = "unknown"

func printProfile(w io.Writer, state session.State) {
	if state.Profile == nil {
		fmt.Fprintf(w, "email: %s\nrole: %s\n", state.Identity.Email, unknownRole)
		return
	}
	fmt.Fprintf(w, "email: %s\nrole: %s\n", state.Profile.Email, state.Profile.Role)
}

func printOffers(w io.Writer, snap mirror.Snapshot, markApplied bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if markApplied {
		fmt.Fprintln(tw, "ID\tTITLE\tPOSTED\tAPPLIED")
	} else {
		fmt.Fprintln(tw, "ID\tTITLE\tPOSTED")
	}
	for _, o := range snap.Offers {
		if markApplied {
			applied := ""
			if snap.Applied[o.ID] {
				applied = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.ID, o.Title, o.CreatedAt.Format(time.DateOnly), applied)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", o.ID, o.Title, o.CreatedAt.Format(time.DateOnly))
	}
	return tw.Flush()
}

func printApplications(w io.Writer, apps []model.Application) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tTITLE\tSTATUS\tAPPLIED ON")
	for _, a := range apps {
		title := ""
		if a.Offer != nil {
			title = a.Offer.Title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.JobID, title, a.Status, a.CreatedAt.Format(time.DateOnly))
	}
	return tw.Flush()
}

func printBoard(w io.Writer, v board.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LANE\tAPPLICANT\tEMAIL")
	for _, lane := range v.Lanes {
		if len(lane.Cards) == 0 {
			fmt.Fprintf(tw, "%s\t-\t\n", lane.Status)
			continue
		}
		for _, card := range lane.Cards {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", lane.Status, card.UserID, card.ApplicantEmail)
		}
	}
	for _, card := range v.Unplaced {
		fmt.Fprintf(tw, "(%s)\t%s\t%s\n", card.Status, card.UserID, card.ApplicantEmail)
	}
	return tw.Flush()
}
