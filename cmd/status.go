package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/lockd/internal/ui"
	"github.com/PolarWolf314/lockd/internal/workflows"

	"github.com/spf13/cobra"
)

var statusJSONOutput bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
}

func resetStatusCommandState() {
	statusJSONOutput = false
}

// statusJSON is the --json shape of a status result.
type statusJSON struct {
	Root    string           `json:"root"`
	Files   []statusFileJSON `json:"files"`
	Notes   []string         `json:"notes"`
	Summary statusSumJSON    `json:"summary"`
}

type statusFileJSON struct {
	Path           string `json:"path"`
	Status         string `json:"status"`
	PlaintextMtime string `json:"plaintext_mtime,omitempty"`
	EncryptedMtime string `json:"encrypted_mtime,omitempty"`
}

type statusSumJSON struct {
	Current       int `json:"current"`
	Stale         int `json:"stale"`
	Unencrypted   int `json:"unencrypted"`
	EncryptedOnly int `json:"encrypted_only"`
	Notes         int `json:"notes"`
}

var statusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Show which files have an up-to-date .lockd envelope",
	Long: `Shows the encryption status of every file under a folder, defaulting to the
workspace containing the current directory.

Each file can have one of four statuses:
  - current:        Envelope is newer than plaintext (up to date)
  - stale:          Plaintext modified after encryption (needs re-encryption)
  - unencrypted:    Plaintext exists with no envelope
  - encrypted_only: Envelope exists with no plaintext (normal after cleanup)

Notes are listed separately. Use --json for machine-readable output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		opts := workflows.StatusOptions{Ignore: Settings.Ignore}
		if len(args) == 1 {
			opts.Root = args[0]
		}

		result, err := workflows.Status(cmd.Context(), opts)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read status: %w", err)
		}
		Logger.Debugf("Found %d files and %d notes under %s", len(result.Files), len(result.Notes), result.Root)

		if statusJSONOutput {
			return outputStatusJSON(result)
		}
		outputStatusText(result)
		return nil
	},
}

func outputStatusJSON(result *workflows.StatusResult) error {
	out := statusJSON{
		Root:  result.Root,
		Files: make([]statusFileJSON, 0, len(result.Files)),
		Notes: result.Notes,
		Summary: statusSumJSON{
			Current:       result.Summary.Current,
			Stale:         result.Summary.Stale,
			Unencrypted:   result.Summary.Unencrypted,
			EncryptedOnly: result.Summary.EncryptedOnly,
			Notes:         result.Summary.Notes,
		},
	}
	if out.Notes == nil {
		out.Notes = []string{}
	}
	for _, f := range result.Files {
		out.Files = append(out.Files, statusFileJSON{
			Path:           f.Path,
			Status:         string(f.Status),
			PlaintextMtime: f.PlaintextMtime,
			EncryptedMtime: f.EncryptedMtime,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputStatusText(result *workflows.StatusResult) {
	fmt.Println("Status of " + ui.Path.Sprint(result.Root) + ":")
	fmt.Println()

	if len(result.Files) == 0 && len(result.Notes) == 0 {
		fmt.Println(ui.Info.Sprint("ℹ") + " No files found")
		return
	}

	for _, f := range result.Files {
		fmt.Printf("  %s  %s\n", statusLabel(f.Status), f.Path)
	}
	for _, n := range result.Notes {
		fmt.Printf("  %s  %s\n", ui.Note.Sprintf("%-14s", "note"), n)
	}

	s := result.Summary
	fmt.Println()
	fmt.Printf("Summary: %d current, %d stale, %d unencrypted, %d encrypted only, %d notes\n",
		s.Current, s.Stale, s.Unencrypted, s.EncryptedOnly, s.Notes)

	if s.Stale > 0 || s.Unencrypted > 0 {
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("lockd encrypt <file>") + " to update envelopes")
	}
}

func statusLabel(status workflows.FileStatus) string {
	label := fmt.Sprintf("%-14s", status)
	switch status {
	case workflows.StatusCurrent:
		return ui.Success.Sprint(label)
	case workflows.StatusStale:
		return ui.Warning.Sprint(label)
	case workflows.StatusUnencrypted:
		return ui.Error.Sprint(label)
	default:
		return ui.Muted.Sprint(label)
	}
}
