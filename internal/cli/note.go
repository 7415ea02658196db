package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nexuskb/nexus/internal/config"
	"github.com/nexuskb/nexus/internal/store"
)

var noteTags []string

var noteCmd = &cobra.Command{
	Use:   "note <title>",
	Short: "Capture a note into the knowledge index",
	Long:  "Opens $EDITOR on a scratch markdown file and stores the result as a note record. Empty or unchanged notes are discarded.",
	Args:  cobra.ExactArgs(1),
	RunE:  runNote,
}

func init() {
	noteCmd.Flags().StringSliceVar(&noteTags, "tags", nil, "comma-separated tags to attach")
}

func runNote(cmd *cobra.Command, args []string) error {
	title := args[0]

	tmp, err := os.CreateTemp("", "nexus_note_*.md")
	if err != nil {
		return fmt.Errorf("create scratch file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	seed := fmt.Sprintf("# %s\n\n", title)
	if _, err := tmp.WriteString(seed); err != nil {
		tmp.Close()
		return fmt.Errorf("seed scratch file: %w", err)
	}
	tmp.Close()

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	edit := exec.Command(editor, path)
	edit.Stdin = os.Stdin
	edit.Stdout = os.Stdout
	edit.Stderr = os.Stderr
	if err := edit.Run(); err != nil {
		return fmt.Errorf("run editor %s: %w", editor, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read note: %w", err)
	}
	content := strings.TrimSpace(string(raw))
	if content == "" || content == strings.TrimSpace(seed) {
		fmt.Println("note is empty or unchanged, nothing saved")
		return nil
	}

	cfg := config.Load()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	slug := strings.ToLower(strings.ReplaceAll(title, " ", "_"))
	rec := store.Record{
		Type:       store.ResourceNote,
		Title:      title,
		PathURL:    "nexus://note/" + slug,
		ContentRaw: content,
	}
	if err := db.CreateRecord(&rec); err != nil {
		return err
	}

	saved := 0
	for _, tag := range noteTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if err := db.AddTag(rec.ID, tag); err != nil {
			return err
		}
		saved++
	}

	fmt.Printf("note %q saved as record %d with %d tag(s)\n", title, rec.ID, saved)
	return nil
}
