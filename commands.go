package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/turbekoff/amountpad/pkg/calculator"
)

var (
	envFile   string
	localeTag string
	config    *Config
)

func Execute() error {
	return rootCmd().Execute()
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "amountpad",
		Short:        "Arithmetic keypad for entering money amounts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(envFile)
			if err != nil {
				return fmt.Errorf("failed to load config, error: %w", err)
			}
			if localeTag != "" {
				tag, err := language.Parse(localeTag)
				if err != nil {
					return fmt.Errorf("invalid locale %q: %w", localeTag, err)
				}
				cfg.Locale = tag
			}
			config = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&localeTag, "locale", "", "number locale as a BCP 47 tag (default $AMOUNTPAD_LOCALE or en)")

	root.AddCommand(serveCmd(), tuiCmd(), evalCmd(), keysCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram keypad bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			botConfig, err := LoadBotConfig(envFile)
			if err != nil {
				return fmt.Errorf("failed to load config, error: %w", err)
			}
			botConfig.Config = *config
			return serve(botConfig, log.Default())
		},
	}
}

func tuiCmd() *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Enter an amount on a terminal keypad and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := config.NewCalculator()
			if amount != "" {
				if err := calc.SetAmount(amount); err != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, err)
				}
			}

			done, err := NewKeypadUI(calc).Run()
			if err != nil {
				return err
			}
			if !done {
				return errors.New("entry cancelled")
			}
			fmt.Fprintln(cmd.OutOrStdout(), calc.Amount())
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "preload the keypad with this amount")
	return cmd
}

func evalCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression such as 1,200x3-50",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := config.NewCalculator()
			if err := calc.SetAmount(strings.Join(args, "")); err != nil {
				return err
			}

			if raw {
				result, err := calc.Evaluate()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.String())
				return nil
			}

			result, err := calc.Result()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the unrounded, ungrouped result")
	return cmd
}

func keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <key>...",
		Short: "Replay keypad presses and print the display after each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return replay(cmd.OutOrStdout(), config.NewCalculator(), args)
		},
	}
}

// replay presses keys in order. Rejected keys are reported and skipped.
func replay(w io.Writer, calc *calculator.Calculator, keys []string) error {
	calc.OnDone(func() {
		fmt.Fprintf(w, "done: %s\n", calc.Amount())
	})

	for _, k := range keys {
		err := calc.Press(k)
		switch {
		case errors.Is(err, calculator.ErrUnsupportedKey):
			return fmt.Errorf("key %q: %w", k, err)
		case err != nil:
			fmt.Fprintf(w, "%-4s %s  (rejected: %v)\n", k, calc.Display(), err)
		default:
			fmt.Fprintf(w, "%-4s %s  [%s]\n", k, calc.Display(), calc.State().Label())
		}
	}
	return nil
}
