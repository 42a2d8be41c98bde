package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/albums/internal/admin"
)

func newCreateDBCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create-db",
		Short: "Create the albums table",
		Long: `
Creates the albums table if it does not exist. An existing table is left
untouched as long as it has the expected columns.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.CreateSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "albums table ready (%s)\n", st.Dialect())
			return nil
		},
	}
}

func newDeleteDBCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-db",
		Short: "Drop the albums table and every record in it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := admin.Drop(cmd.Context(), st); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "albums table dropped")
			return nil
		},
	}
}

func newReseedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reseed",
		Short: "Drop and recreate the albums table, leaving it empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := admin.Reseed(cmd.Context(), st); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "albums table reseeded")
			return nil
		},
	}
}

func newVerifyCommand(a *app) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Read the albums table back and print the record count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if !list {
				n, err := st.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%d albums\n", n)
				return nil
			}

			records, err := st.Albums(cmd.Context())
			if err != nil {
				return err
			}
			for _, rec := range records {
				fmt.Fprintln(a.stdout, rec)
			}
			fmt.Fprintf(a.stdout, "%d albums\n", len(records))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "print every record, ordered by id")
	return cmd
}
