package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/internal/writer"
	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/patch"
)

var (
	applyOutput  string
	applyIPSOut  string
	applyMarkers []string
)

func init() {
	rootCmd.AddCommand(newApplyCmd())
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <rom> <patch>...",
		Short: "Apply text or IPS patches to an image",
		Long: `The apply command applies each patch in order. Each patch is applied in
full or not at all. The result is written atomically to the output path.

Patches starting with "PATCH" are read as IPS, anything else as text
(offset:length:bytes per line). --mark replays a patch against the free-space
map only, for patches that are already in the image.

Example:
  romctl apply ct.sfc base.ips hacks.txt -o out.sfc
  romctl apply ct.sfc base.ips -o out.sfc --ips-out changes.ips`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVarP(&applyOutput, "output", "o", "", "Output image path (required)")
	cmd.Flags().StringVar(&applyIPSOut, "ips-out", "", "Also write all changes as an IPS patch")
	cmd.Flags().StringSliceVar(&applyMarkers, "mark", nil, "Patches to replay against the free-space map only")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

type applyResult struct {
	Output       string `json:"output"`
	Patches      int    `json:"patches"`
	Records      int    `json:"records"`
	BytesWritten int    `json:"bytes_written"`
	FreeBytes    int    `json:"free_bytes"`
}

func runApply(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if applyOutput == "" {
		return fmt.Errorf("--output is required")
	}

	r, err := openROM(args[0])
	if err != nil {
		return err
	}

	for _, path := range applyMarkers {
		records, err := patch.ReadFile(path)
		if err != nil {
			return err
		}
		patch.Mark(r.Space(), records)
		printVerbose("Marked %s (%d records)\n", path, len(records))
	}

	result := applyResult{Output: applyOutput, Patches: len(args) - 1}
	for _, path := range args[1:] {
		records, err := patch.ReadFile(path)
		if err != nil {
			return err
		}
		if err := patch.Apply(ctx, r, records); err != nil {
			return fmt.Errorf("apply %s: %w", path, err)
		}
		result.Records += len(records)
		printVerbose("Applied %s (%d records)\n", path, len(records))
	}

	if err := writeOutputs(r, applyOutput, applyIPSOut); err != nil {
		return err
	}

	result.BytesWritten = r.ChangedBytes()
	result.FreeBytes = r.Space().FreeBytes()

	if jsonOut {
		return printJSON(result)
	}
	printInfo("Applied %d patch(es), %d record(s), 0x%X bytes written\n",
		result.Patches, result.Records, result.BytesWritten)
	printInfo("Free space: 0x%X bytes in %d block(s)\n",
		result.FreeBytes, len(r.Space().Blocks(alloc.MarkFree)))
	printInfo("Wrote %s\n", applyOutput)
	return nil
}

// writeOutputs writes the image and, when ipsPath is set, the change patch.
// Both are staged before either target is replaced, so a failed run leaves
// neither file behind.
func writeOutputs(r *rom.ROM, imagePath, ipsPath string) error {
	var batch writer.Batch
	if ipsPath != "" {
		var ips bytes.Buffer
		if err := patch.WriteIPS(&ips, r.Bytes(), r.Changes()); err != nil {
			return fmt.Errorf("failed to build IPS output: %w", err)
		}
		if err := batch.Add(ipsPath).WriteROM(ips.Bytes()); err != nil {
			batch.Discard()
			return fmt.Errorf("failed to write IPS output: %w", err)
		}
	}
	if err := r.Save(batch.Add(imagePath)); err != nil {
		batch.Discard()
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("failed to write outputs: %w", err)
	}
	return nil
}
