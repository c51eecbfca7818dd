package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cvfolio/cvfolio/pkg/auth"
	"github.com/cvfolio/cvfolio/pkg/config"
	"github.com/cvfolio/cvfolio/pkg/cv"
	"github.com/cvfolio/cvfolio/pkg/logging"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
	"github.com/cvfolio/cvfolio/pkg/repository/records"
	"github.com/cvfolio/cvfolio/pkg/storage"
)

// env is what every subcommand works against.
type env struct {
	store  *recordstore.Store
	handle *storage.Handle
}

func openEnv(ctx context.Context, backend string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.StoreBackend = backend
	}
	handle, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	log := logging.New(cfg.AppEnv, cfg.LogLevel)
	return &env{store: recordstore.New(handle.Backend, recordstore.WithLogger(log)), handle: handle}, nil
}

func newRootCmd() *cobra.Command {
	var backend string
	root := &cobra.Command{
		Use:          "cvctl",
		Short:        "Maintenance tool for the cvfolio record store",
		Long:         `Lists, exports and resets collections, and creates back office accounts. Configuration is read like the server does (CONFIG_FILE, .env, environment).`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&backend, "backend", "", "Override STORE_BACKEND (json, memory, sqlite, postgres)")

	// run opens the store, hands it to fn and closes it afterwards.
	run := func(fn func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), backend)
			if err != nil {
				return err
			}
			defer e.handle.Close()
			return fn(cmd, args, e)
		}
	}

	root.AddCommand(&cobra.Command{
		Use:   "collections",
		Short: "List persisted collections",
		Args:  cobra.NoArgs,
		RunE:  run(runCollections),
	})
	root.AddCommand(&cobra.Command{
		Use:   "export [collection]",
		Short: "Print a collection as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  run(runExport),
	})
	root.AddCommand(&cobra.Command{
		Use:   "reset-cv",
		Short: "Restore the default CV",
		Args:  cobra.NoArgs,
		RunE:  run(runResetCV),
	})

	var in auth.RegisterInput
	createAdmin := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a back office account",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, e *env) error {
			in.Confirm = in.Password
			res, err := auth.NewAuthService(records.NewUserRepository(e.store), nil).Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			cmd.Printf("created user %d (%s)\n", res.User.ID, res.User.Email)
			return nil
		}),
	}
	createAdmin.Flags().StringVar(&in.Email, "email", "", "Account email")
	createAdmin.Flags().StringVar(&in.Password, "password", "", "Account password (at least 6 characters)")
	createAdmin.Flags().StringVar(&in.Nom, "nom", "cvfolio", "Last name")
	createAdmin.Flags().StringVar(&in.Prenom, "prenom", "Admin", "First name")
	_ = createAdmin.MarkFlagRequired("email")
	_ = createAdmin.MarkFlagRequired("password")
	root.AddCommand(createAdmin)

	return root
}

func runCollections(cmd *cobra.Command, _ []string, e *env) error {
	names, err := e.store.ListCollections(cmd.Context())
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, n := range names {
		cmd.Println(n)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string, e *env) error {
	name := args[0]
	if err := recordstore.ValidName(name); err != nil {
		return err
	}
	ok, err := e.store.Exists(cmd.Context(), name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("collection %q does not exist", name)
	}
	raw, err := e.store.Read(cmd.Context(), name, nil)
	if err != nil {
		return err
	}
	cmd.Println(string(raw))
	return nil
}

func runResetCV(cmd *cobra.Command, _ []string, e *env) error {
	c, err := cv.NewService(e.store).Reset(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("cv reset to %q\n", c.Nom)
	return nil
}
