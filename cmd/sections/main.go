// Command sections inspects the section layout of a WebAssembly module:
// type tags, file offsets, header and body sizes, and custom section names.
// It is the read-side counterpart of the emit package and is used to check
// linker output by eye.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/tetratelabs/wazero"
	"golang.org/x/term"

	"github.com/wippyai/wasm-linker/wasm"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to wasm module")
		validate    = flag.Bool("validate", false, "Compile the module with wazero to check validity")
		interactive = flag.Bool("i", false, "Interactive mode with section hex viewer")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: sections -wasm <file.wasm> [-validate]")
		fmt.Fprintln(os.Stderr, "       sections -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(*wasmFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, *validate); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

func run(wasmFile string, validate bool) error {
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	infos, err := wasm.ScanSections(data)
	if err != nil {
		return fmt.Errorf("scan sections: %w", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		// Plain output for pipes and logs.
		for _, info := range infos {
			fmt.Printf("%-24s offset=%#08x header=%d body=%d\n",
				info.TypeName(), info.Offset, info.BodyOff-info.Offset, info.BodySize)
		}
		fmt.Printf("total %d bytes in %d sections\n", len(data), len(infos))
	} else {
		fmt.Println(headerStyle.Render(fmt.Sprintf("%s — %d sections", wasmFile, len(infos))))
		for _, info := range infos {
			fmt.Printf("  %s %s header=%d body=%d\n",
				offsetStyle.Render(fmt.Sprintf("%#08x", info.Offset)),
				sectionStyle.Render(fmt.Sprintf("%-24s", info.TypeName())),
				info.BodyOff-info.Offset,
				info.BodySize)
		}
		fmt.Println(totalStyle.Render(fmt.Sprintf("total %d bytes", len(data))))
	}

	if validate {
		ctx := context.Background()
		r := wazero.NewRuntime(ctx)
		defer r.Close(ctx)

		compiled, err := r.CompileModule(ctx, data)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		defer compiled.Close(ctx)
		fmt.Println(totalStyle.Render("module is valid"))
	}

	return nil
}
