package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/internal/format"
	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/alloc"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <rom>",
		Short: "Validate an image and report basic metadata",
		Long: `The info command reports the size, MD5 and copier header of an image and
whether it is the vanilla ROM. It never fails on a checksum mismatch.

Example:
  romctl info ct.sfc
  romctl info ct.sfc --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type imageInfo struct {
	File         string `json:"file"`
	Size         int    `json:"size"`
	CopierHeader bool   `json:"copier_header"`
	MD5          string `json:"md5"`
	Vanilla      bool   `json:"vanilla"`
	Banks        int    `json:"banks"`
	Digest       string `json:"digest"`
}

func runInfo(args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	opts := rom.DefaultOptions()
	opts.IgnoreChecksum = true
	r, err := rom.New(data, opts)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	info := imageInfo{
		File:         path,
		Size:         len(data),
		CopierHeader: rom.HasCopierHeader(data),
		MD5:          rom.Checksum(data),
		Vanilla:      rom.ValidateBytes(data),
		Banks:        format.AlignBank(r.Len()) / format.BankSize,
		Digest:       fmt.Sprintf("%016x", r.Digest()),
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nImage Information:\n")
	printInfo("  File: %s\n", info.File)
	printInfo("  Size: 0x%X bytes (%d banks)\n", info.Size, info.Banks)
	printInfo("  Copier header: %t\n", info.CopierHeader)
	printInfo("  MD5: %s\n", info.MD5)
	printInfo("  Digest: %s\n", info.Digest)
	if info.Vanilla {
		printInfo("  ✓ Vanilla image\n")
	} else {
		printInfo("  ✗ Not the vanilla image\n")
	}
	printVerbose("  Used blocks: %d\n", len(r.Space().Blocks(alloc.MarkUsed)))
	return nil
}
