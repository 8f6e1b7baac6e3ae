package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newPromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage the prompt pool",
	}

	cmd.AddCommand(newPromptCountCmd())
	cmd.AddCommand(newPromptLoadCmd())

	return cmd
}

func newPromptCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the size of the loaded prompt pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PromptsLoaded
			if err := client.Get("/api/v1/prompts", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPromptLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Replace the prompt pool from a file (one prompt per line)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = file.Close() }()

			var prompts []string
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line != "" {
					prompts = append(prompts, line)
				}
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			body := map[string][]string{"prompts": prompts}
			var result PromptsLoaded
			if err := client.Post("/api/v1/prompts", body, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
