package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/litoralapp/litoral/internal/client"
)

func newLoginCmd() *cobra.Command {
	var server, key string

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Log in and store a bearer token",
		Long:  "Logs in with email and password and stores the issued token, or stores a pre-generated API key with --key.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := ""
			if len(args) == 1 {
				email = args[0]
			}
			return runLogin(server, key, email)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or http://localhost:8080)")
	cmd.Flags().StringVar(&key, "key", "", "store a pre-generated API key instead of logging in")

	return cmd
}

func runLogin(serverFlag, key, email string) error {
	serverURL := serverFlag
	if serverURL == "" {
		serverURL = getServerURL()
	}

	token := key
	if token != "" {
		if err := validateAPIKey(token); err != nil {
			return err
		}
	} else {
		reader := bufio.NewReader(os.Stdin)

		if email == "" {
			fmt.Print("Email: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			email = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		password := strings.TrimSpace(line)

		c := client.New(serverURL, "")
		token, err = c.Login(email, password)
		if err != nil {
			return err
		}
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}

	cfg.Token = token
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("✓ Token saved. You're logged in!")
	return nil
}

// validateAPIKey checks that the key is non-empty and has the expected prefix.
func validateAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("no API key provided")
	}
	if !strings.HasPrefix(key, "lt_") {
		return fmt.Errorf("invalid API key format (should start with lt_)")
	}
	return nil
}
