// Package main writes the Chroma stylesheet matching the classes emitted by the renderer.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/pflag"

	"github.com/euforicio/wikigen/internal/renderer"
)

func main() {
	flags := pflag.NewFlagSet("generate-chroma-css", pflag.ExitOnError)
	styleName := flags.StringP("style", "s", renderer.DefaultStyle, "chroma style to export")
	outPath := flags.StringP("out", "o", "", "write to this file instead of stdout")
	_ = flags.Parse(os.Args[1:])

	if err := generate(*styleName, *outPath, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "generate-chroma-css: %v\n", err)
		os.Exit(1)
	}
}

func generate(styleName, outPath string, stdout io.Writer) error {
	style, ok := styles.Registry[styleName]
	if !ok {
		return fmt.Errorf("style %q not found", styleName)
	}

	formatter := html.New(
		html.WithClasses(true),
		html.ClassPrefix(""),
	)

	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return fmt.Errorf("write css: %w", err)
	}
	if outPath == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(outPath, buf.Bytes(), 0o644) //nolint:gosec // generated stylesheet
}
