package system

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/storage"
)

// ExportCmd writes the whole store as JSON
type ExportCmd struct {
	Output string `short:"o" help:"File to write, stdout when empty." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	snap, err := storage.Export(ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to export data: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	data = append(data, '\n')

	if c.Output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("✓ Exported %d races, %d personal races and %d shoes to %s\n",
		len(snap.Races), len(snap.PersonalRaces), len(snap.Shoes), c.Output)
	return nil
}

// ImportCmd loads a JSON export, replacing records with the same ids
type ImportCmd struct {
	File string `arg:"" help:"Export file to load, '-' for stdin."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	var r io.Reader = os.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var snap storage.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}

	ctx.PerformAutomaticBackup()
	if err := storage.Import(ctx.Store, snap); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	fmt.Printf("✓ Imported %d races, %d personal races and %d shoes\n",
		len(snap.Races), len(snap.PersonalRaces), len(snap.Shoes))
	return nil
}
