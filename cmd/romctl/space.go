package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/patch"
)

var (
	spacePatches  []string
	spaceFind     string
	spaceHint     string
	spaceSameBank []string
)

func init() {
	rootCmd.AddCommand(newSpaceCmd())
}

func newSpaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "space <rom>",
		Short: "List free and used blocks or find room for new data",
		Long: `The space command builds the free-space map of an image, after applying
any --patch files in memory, and lists it. With --find it reports where a
block of that size would be placed; with --same-bank it places several
blocks in one bank.

Example:
  romctl space ct.sfc --patch base.ips
  romctl space ct.sfc --patch base.ips --find 0x200 --hint 0x5F0000
  romctl space ct.sfc --patch base.ips --same-bank 0x40,0x80,0x10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpace(cmd.Context(), args)
		},
	}

	cmd.Flags().StringSliceVar(&spacePatches, "patch", nil, "Patches to apply before inspecting")
	cmd.Flags().StringVar(&spaceFind, "find", "", "Find a free block of this size")
	cmd.Flags().StringVar(&spaceHint, "hint", "0", "Search from this offset")
	cmd.Flags().StringSliceVar(&spaceSameBank, "same-bank", nil, "Find blocks of these sizes in one bank")
	return cmd
}

type spaceReport struct {
	Size      int           `json:"size"`
	FreeBytes int           `json:"free_bytes"`
	Free      []alloc.Block `json:"free,omitempty"`
	Used      []alloc.Block `json:"used,omitempty"`
	Found     []int         `json:"found,omitempty"`
}

func runSpace(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := openROM(args[0])
	if err != nil {
		return err
	}
	for _, path := range spacePatches {
		records, err := patch.ReadFile(path)
		if err != nil {
			return err
		}
		if err := patch.Apply(ctx, r, records); err != nil {
			return fmt.Errorf("apply %s: %w", path, err)
		}
	}

	hint, err := parseNumber(spaceHint)
	if err != nil {
		return err
	}
	space := r.Space()
	report := spaceReport{Size: space.Size(), FreeBytes: space.FreeBytes()}

	switch {
	case spaceFind != "":
		size, err := parseNumber(spaceFind)
		if err != nil {
			return err
		}
		off, err := space.FindFree(size, hint)
		if err != nil {
			return err
		}
		report.Found = []int{off}
	case len(spaceSameBank) > 0:
		sizes := make([]int, len(spaceSameBank))
		for i, s := range spaceSameBank {
			if sizes[i], err = parseNumber(s); err != nil {
				return err
			}
		}
		if report.Found, err = space.FindSameBankFree(sizes, hint); err != nil {
			return err
		}
	default:
		report.Free = space.Blocks(alloc.MarkFree)
		report.Used = space.Blocks(alloc.MarkUsed)
	}

	if jsonOut {
		return printJSON(report)
	}
	if report.Found != nil {
		for _, off := range report.Found {
			printInfo("0x%06X\n", off)
		}
		return nil
	}
	printInfo("%s", space)
	printInfo("Free: 0x%X of 0x%X bytes\n", report.FreeBytes, report.Size)
	return nil
}
