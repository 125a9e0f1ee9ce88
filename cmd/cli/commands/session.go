package commands

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/exam-invigilation/pkg/core/services"
)

// SessionCmd creates the session command: load the workbook once and re-roll on demand
func SessionCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive session to re-roll assignments until one looks right",
		Long: `Start an interactive session. Each re-roll runs a fresh assignment from a new seed;
save writes the current one. The session keeps running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attempts, _ := cmd.Flags().GetInt("attempts")
			fontPath, _ := cmd.Flags().GetString("font")

			source, err := app.OpenWorkbook()
			if err != nil {
				return err
			}
			defer source.Close()

			run := func(seed uint64) (*services.AssignResult, error) {
				result, err := services.AssignInvigilators(app.Ctx, source, app.Cfg, app.Logger, services.AssignOptions{
					Seed:     seed,
					Attempts: attempts,
				})
				if err != nil {
					return nil, fmt.Errorf("assignment failed: %w", err)
				}
				return result, nil
			}

			current, err := run(uint64(time.Now().UnixNano()))
			if err != nil {
				return err
			}
			printResult(current)

			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")
			scanner := bufio.NewScanner(cmd.InOrStdin())

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts := strings.Fields(line)
				name, params := parts[0], parts[1:]

				switch name {
				case "exit", "quit":
					fmt.Println("👋 Goodbye!")
					return nil

				case "help":
					printSessionHelp()

				case "reroll", "r":
					result, err := run(uint64(time.Now().UnixNano()))
					if err != nil {
						fmt.Printf("❌ Error: %v\n\n", err)
						continue
					}
					current = result
					printResult(current)

				case "seed":
					if len(params) != 1 {
						fmt.Printf("❌ Usage: seed <number>\n\n")
						continue
					}
					seed, err := strconv.ParseUint(params[0], 10, 64)
					if err != nil {
						fmt.Printf("❌ Invalid seed: %v\n\n", err)
						continue
					}
					result, err := run(seed)
					if err != nil {
						fmt.Printf("❌ Error: %v\n\n", err)
						continue
					}
					current = result
					printResult(current)

				case "show":
					printResult(current)

				case "stats":
					printStatistics(current.Statistics)

				case "save":
					if len(params) == 0 {
						fmt.Printf("❌ Usage: save <file.xlsx|file.csv|file.pdf> [...]\n\n")
						continue
					}
					if err := writeOutputs(app, current, params, fontPath); err != nil {
						fmt.Printf("❌ Error: %v\n\n", err)
						continue
					}
					app.Logger.Info("Saved session result",
						zap.String("run_id", current.RunID),
						zap.Uint64("seed", current.Seed))

				default:
					fmt.Printf("❌ Unknown command: %s (type 'help' for available commands)\n\n", name)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().Int("attempts", 0, "Attempts per re-roll (default: config attempts)")
	cmd.Flags().String("font", "", "UTF-8 TrueType font for PDF output")

	return cmd
}

func printSessionHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Printf("  %-30s %s\n", "reroll, r", "Run a new assignment from a fresh seed")
	fmt.Printf("  %-30s %s\n", "seed <number>", "Run the assignment for a specific seed")
	fmt.Printf("  %-30s %s\n", "show", "Print the current assignment again")
	fmt.Printf("  %-30s %s\n", "stats", "Print the current statistics table")
	fmt.Printf("  %-30s %s\n", "save <file> [...]", "Save the current assignment (.xlsx, .csv, .pdf)")
	fmt.Println("\n  help                           Show this help message")
	fmt.Println("  exit, quit                     Exit the interactive session")
	fmt.Println()
}
