package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yesilw0rks/airnote/pkg/core"
	"github.com/yesilw0rks/airnote/pkg/reconcile"
)

var (
	loginGuest bool
	loginUser  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as guest or as a user",
	Long: `Sign in with the shared guest identity (--guest) or a user ID (--user).
The identity is remembered in the local cache until 'airnote logout'.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if loginGuest == (loginUser != "") {
			fatal("Invalid flags", errors.New("pass exactly one of --guest or --user"))
		}
		identity := loginUser
		if loginGuest {
			identity = core.GuestUserID
		}

		ctx := context.Background()
		client, err := openClient(ctx)
		if err != nil {
			fatal("Failed to initialize airnote", err)
		}
		defer client.Close()

		err = client.Reconciler().SwitchIdentity(ctx, identity)
		if err != nil && !reconcile.IsOffline(err) {
			fatal("Failed to sign in", err)
		}
		reportRefresh(err)
		fmt.Printf("Signed in as %s (%d notes).\n", identity, len(client.Reconciler().Notes()))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in identity",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client, err := openClient(ctx)
		if err != nil {
			fatal("Failed to initialize airnote", err)
		}
		defer client.Close()

		if err := client.Reconciler().SignOut(ctx); err != nil {
			fatal("Failed to sign out", err)
		}
		fmt.Println("Signed out.")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().BoolVar(&loginGuest, "guest", false, "Use the shared guest identity")
	loginCmd.Flags().StringVar(&loginUser, "user", "", "User ID to sign in as")
}
