package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/rom/codec"
)

var (
	compressOutput string
	compressMode   string
	decompressAt   string
	decompressOut  string
)

func init() {
	rootCmd.AddCommand(newCompressCmd(), newDecompressCmd())
}

func newCompressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compress <file>",
		Short: "Compress a file into the ROM's LZ format",
		Long: `The compress command packs a file of at most 0x10000 bytes.

Example:
  romctl compress script.bin -o script.lz
  romctl compress script.bin -o script.lz --mode best`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(args)
		},
	}
	cmd.Flags().StringVarP(&compressOutput, "output", "o", "", "Output path (required)")
	cmd.Flags().StringVar(&compressMode, "mode", "narrow", "Encoding mode: narrow, wide or best")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newDecompressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decompress <file>",
		Short: "Decompress a stream stored in a file or image",
		Long: `The decompress command unpacks the stream that starts at --offset.

Example:
  romctl decompress ct.sfc --offset 0x3D0000 -o event.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompress(args)
		},
	}
	cmd.Flags().StringVar(&decompressAt, "offset", "0", "Offset of the stream")
	cmd.Flags().StringVarP(&decompressOut, "output", "o", "", "Output path (required)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runCompress(args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var out []byte
	mode := codec.Narrow
	switch compressMode {
	case "narrow":
		out, err = codec.CompressMode(src, codec.Narrow)
	case "wide":
		mode = codec.Wide
		out, err = codec.CompressMode(src, codec.Wide)
	case "best":
		out, mode, err = codec.CompressBest(src)
	default:
		return fmt.Errorf("unknown mode %q", compressMode)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(compressOutput, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if jsonOut {
		return printJSON(map[string]any{"input": len(src), "output": len(out), "mode": mode.String()})
	}
	printInfo("0x%X -> 0x%X bytes (%s)\n", len(src), len(out), mode)
	return nil
}

func runDecompress(args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	off, err := parseNumber(decompressAt)
	if err != nil {
		return err
	}

	out, err := codec.Decompress(buf, off)
	if err != nil {
		return err
	}
	n, err := codec.CompressedLength(buf, off)
	if err != nil {
		return err
	}

	if err := os.WriteFile(decompressOut, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if jsonOut {
		return printJSON(map[string]any{"offset": off, "compressed": n, "output": len(out)})
	}
	printInfo("0x%06X: 0x%X -> 0x%X bytes\n", off, n, len(out))
	return nil
}
