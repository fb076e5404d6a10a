package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"drimer.pl/drimain/internal/auth"
)

var (
	flagUsername string
	flagPassword string
	flagRoles    string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage login accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user with the given roles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		u, err := auth.Provision(cmd.Context(), store, auth.NewUser{
			Username: flagUsername,
			Password: flagPassword,
			Roles:    strings.Split(flagRoles, ","),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d) roles=%s\n", u.Username, u.ID, strings.Join(u.Roles.Strings(), ","))
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users and their roles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		users, err := store.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", u.ID, u.Username, strings.Join(u.Roles.Strings(), ","))
		}
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&flagUsername, "username", "", "Login name")
	userAddCmd.Flags().StringVar(&flagPassword, "password", "", "Password (at least 6 characters)")
	userAddCmd.Flags().StringVar(&flagRoles, "roles", "USER", "Comma separated roles: ADMIN, BIURO, USER")
	_ = userAddCmd.MarkFlagRequired("username")
	_ = userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
}
