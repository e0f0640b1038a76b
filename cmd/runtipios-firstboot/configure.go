package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/runtipios/firstboot/internal/common"
	"github.com/runtipios/firstboot/internal/credstore"
	"github.com/runtipios/firstboot/internal/hostinfo"
)

var linkCommand = hostinfo.DefaultLinkCommand

type configureOptions struct {
	username      string
	wifiSSID      string
	wifiPassword  string
	passwordStdin bool
}

// readPasswords returns the password and its confirmation. With
// --password-stdin the first line of stdin is used for both.
func readPasswords(cmd *cobra.Command, fromStdin bool) (string, string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", fmt.Errorf("cannot read password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")
		return password, password, nil
	}

	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", "", errors.New("stdin is not a terminal, use --password-stdin")
	}

	prompt := func(label string) (string, error) {
		fmt.Fprint(cmd.OutOrStdout(), label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		return string(b), err
	}
	password, err := prompt("Password: ")
	if err != nil {
		return "", "", fmt.Errorf("cannot read password: %w", err)
	}
	confirm, err := prompt("Confirm password: ")
	if err != nil {
		return "", "", fmt.Errorf("cannot read password: %w", err)
	}
	return password, confirm, nil
}

func newConfigureCmd(opts *globalOptions) *cobra.Command {
	var co configureOptions

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Write the credential record from the terminal",
		Long: "Write the credential record from the terminal. On a wired link the WiFi fields are\n" +
			"stored as null, otherwise --wifi-ssid is required.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger("configure")
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			password, confirm, err := readPasswords(cmd, co.passwordStdin)
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			record := credstore.Record{
				Username: co.username,
				Password: password,
			}
			if hostinfo.HasWiredLink(cmd.Context(), linkCommand) {
				logger.Info("ethernet connection detected, skipping WiFi configuration")
			} else {
				if co.wifiSSID == "" {
					return errors.New("no wired link found, --wifi-ssid is required")
				}
				record.WifiSSID = common.ToPtr(co.wifiSSID)
				record.WifiPassword = common.ToPtr(co.wifiPassword)
			}

			if err := record.Validate(cfg.Portal.MinPasswordLength); err != nil {
				return err
			}

			store := credstore.New(cfg.ConfigFile)
			if err := store.Write(record); err != nil {
				return err
			}
			logger.WithField("username", record.Username).Debug("configuration written")
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&co.username, "username", credstore.DefaultUsername, "administrator account name")
	cmd.Flags().StringVar(&co.wifiSSID, "wifi-ssid", "", "WiFi network to join")
	cmd.Flags().StringVar(&co.wifiPassword, "wifi-password", "", "WiFi password")
	cmd.Flags().BoolVar(&co.passwordStdin, "password-stdin", false, "read the account password from stdin")

	return cmd
}
