package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"studymate/internal/infra/credentials"
)

var keyEnv = map[string]string{
	credentials.ProviderGroq:      "GROQ_API_KEY",
	credentials.ProviderAnthropic: "ANTHROPIC_API_KEY",
	credentials.ProviderOpenAI:    "OPENAI_API_KEY",
}

func newKeysCommand(ctx *commandContext) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage stored generation API keys",
	}

	var key string
	setCmd := &cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key (falls back to the provider's environment variable)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := strings.ToLower(strings.TrimSpace(args[0]))
			value := strings.TrimSpace(key)
			if value == "" {
				value = strings.TrimSpace(os.Getenv(keyEnv[provider]))
			}
			store, err := ctx.keyStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Set(cmd.Context(), provider, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s key stored (%s)\n", provider, credentials.Mask(value))
			return nil
		},
	}
	setCmd.Flags().StringVar(&key, "key", "", "API key value")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "List stored keys, masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.keyStore(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no stored keys")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Provider", "Key", "Updated"},
				lo.Map(entries, func(e credentials.Entry, _ int) []string {
					return []string{e.Provider, e.Masked, e.UpdatedAt.Format("2006-01-02 15:04")}
				}),
				nil,
			))
			return nil
		},
	}

	keysCmd.AddCommand(setCmd, showCmd)
	return keysCmd
}
