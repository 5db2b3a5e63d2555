// tang compiles and runs Tang source: an expression passed with -e, a
// named script file, or stdin. Without -s/--script, source is treated
// as a template document where only `<% … %>` regions are Tang code and
// everything else is emitted verbatim (§6.1, §6.2).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tang-lang/tang/program"
	"github.com/tang-lang/tang/repl"
	"github.com/tang-lang/tang/value"
)

const version = "0.1.0"

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `Tang v%s

USAGE:
    %s [OPTIONS] [FILE]

DESCRIPTION:
    Tang compiles and runs Tang source code. With no FILE and no -e, it
    reads source from standard input when input is piped, and otherwise
    starts an interactive REPL. Source from a FILE, -e or piped input is
    treated as a template document (text outside <%% … %%> regions is
    emitted verbatim) unless -s/--script is given.

OPTIONS:
    -e, --evaluate <code>   Evaluate the given source directly
    -s, --script            Treat source as a plain script, not a template
    -c, --cleanup           Tear down all structures before exit
    -d, --debug             Set the program's debug flag (prints nothing extra)
        --no-jit            Disable native compilation even on amd64
    -v, --version           Show version information
    -h, --help              Show this help message

EXAMPLES:
    # Start the interactive REPL
    %s

    # Run a script file
    %s -s script.tang

    # Render a template file
    %s template.tang

    # Evaluate an expression
    %s -s -e "print 2 + 2"
`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = printUsage

	var evalFlag, evalFlagShort string
	var scriptFlag, scriptFlagShort bool
	var cleanupFlag, cleanupFlagShort bool
	var debugFlag, debugFlagShort bool
	var noJIT bool
	var versionFlag, versionFlagShort bool

	flag.StringVar(&evalFlag, "evaluate", "", "Evaluate the given source directly")
	flag.StringVar(&evalFlagShort, "e", "", "Evaluate the given source directly")
	flag.BoolVar(&scriptFlag, "script", false, "Treat source as a plain script, not a template")
	flag.BoolVar(&scriptFlagShort, "s", false, "Treat source as a plain script, not a template")
	flag.BoolVar(&cleanupFlag, "cleanup", false, "Tear down all structures before exit")
	flag.BoolVar(&cleanupFlagShort, "c", false, "Tear down all structures before exit")
	flag.BoolVar(&debugFlag, "debug", false, "Set the program's debug flag (prints nothing extra)")
	flag.BoolVar(&debugFlagShort, "d", false, "Set the program's debug flag (prints nothing extra)")
	flag.BoolVar(&noJIT, "no-jit", false, "Disable native compilation even on amd64")
	flag.BoolVar(&versionFlag, "version", false, "Show version information")
	flag.BoolVar(&versionFlagShort, "v", false, "Show version information")

	flag.Parse()

	if versionFlag || versionFlagShort {
		fmt.Printf("Tang v%s\n", version)
		return 0
	}

	evaluate := firstNonEmpty(evalFlag, evalFlagShort)
	script := scriptFlag || scriptFlagShort
	cleanup := cleanupFlag || cleanupFlagShort
	debug := debugFlag || debugFlagShort

	args := flag.Args()
	if len(args) > 1 {
		_, _ = fmt.Fprintln(os.Stderr, "tang: too many positional arguments")
		return -1
	}

	flags := program.Flags{Debug: debug, DisableNative: noJIT}

	if evaluate != "" {
		return execute(evaluate, script, cleanup, flags)
	}

	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "tang: reading %s: %s\n", args[0], err)
			return -1
		}
		return execute(string(content), script, cleanup, flags)
	}

	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		content, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "tang: reading stdin: %s\n", err)
			return -1
		}
		return execute(string(content), script, cleanup, flags)
	}

	username := "unknown"
	if u, err := os.UserHomeDir(); err == nil {
		username = strings.TrimPrefix(u, "/home/")
	}
	repl.Start(username, repl.Options{Debug: debug, NoJIT: noJIT})
	return 0
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// execute compiles source (through the template preprocessor unless
// script is true) and runs it to completion, printing the result or
// diagnostic and returning the process exit code per §6.1.
func execute(source string, script, cleanup bool, flags program.Flags) int {
	if !script {
		source = preprocessTemplate(source)
	}

	prog, err := program.Create(source, flags)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "tang: compile error: %s\n", err)
		return 1
	}

	ctx := value.NewContext()
	if ctx == nil {
		_, _ = fmt.Fprintln(os.Stderr, "tang: failed to create execution context")
		return 2
	}

	result, err := prog.Execute(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "tang: runtime error: %s\n", err)
		if cleanup {
			ctx.Destroy()
			prog.Destroy()
		}
		return 3
	}

	if out := ctx.Output(); out != "" {
		fmt.Print(out)
	}

	exitCode := 0
	if result != nil && result.Flags().IsError {
		_, _ = fmt.Fprintf(os.Stderr, "tang: %s\n", result.ToString(ctx))
		exitCode = 3
	}

	if cleanup {
		ctx.Destroy()
		prog.Destroy()
	}

	return exitCode
}

// preprocessTemplate splits source into literal spans and `<% … %>`
// script spans (§6.2), compiling literal spans to implicit `print`
// statements of their (escaped) text and concatenating script spans
// verbatim, so the whole document becomes one Tang program.
func preprocessTemplate(source string) string {
	var b strings.Builder
	rest := source
	for {
		start := strings.Index(rest, "<%")
		if start < 0 {
			emitLiteral(&b, rest)
			break
		}
		emitLiteral(&b, rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "%>")
		if end < 0 {
			// Unterminated region: treat the remainder as script, matching
			// "script regions" running to end of input rather than
			// silently dropping it.
			b.WriteString(rest)
			b.WriteString("\n")
			break
		}
		b.WriteString(rest[:end])
		b.WriteString("\n")
		rest = rest[end+2:]
	}
	return b.String()
}

// emitLiteral appends text as a print statement of an escaped string
// literal, a no-op for empty text.
func emitLiteral(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	b.WriteString("print \"")
	for _, r := range text {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("\";\n")
}
