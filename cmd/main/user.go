package main

import (
	"fmt"

	"market-analyzer/src/auth"

	"github.com/spf13/cobra"
)

var (
	newUser auth.RegisterRequest

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard accounts",
	}

	userCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a dashboard account",
		Args:  cobra.NoArgs,
		RunE:  runUserCreate,
	}
)

func init() {
	userCreateCmd.Flags().StringVarP(&newUser.Username, "username", "u", "", "account name")
	userCreateCmd.Flags().StringVarP(&newUser.Email, "email", "e", "", "email address")
	userCreateCmd.Flags().StringVarP(&newUser.Password, "password", "p", "", "password (6 to 72 characters)")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)
}

// -----------------------------------------------------------------------------

func runUserCreate(cmd *cobra.Command, args []string) error {
	app, err := setupApp(configPath, true)
	if err != nil {
		return err
	}
	defer app.Close()

	newUser.ConfirmPassword = newUser.Password
	user, err := app.Auth.Register(cmd.Context(), newUser)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(fmt.Sprintf("Created user %s (id %d)", user.Username, user.ID)))
	return nil
}
