package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ASCII logo for the application
const ASCIILogo = `
 ┌┬┐┬ ┬┬─┐┌─┐┌─┐┌┬┐┌─┐┌─┐┌┬┐┬
  │ ├─┤├┬┘├┤ ├─┤ ││└─┐│   │ │
  ┴ ┴ ┴┴└─└─┘┴ ┴─┴┘└─┘└─┘ ┴ ┴─┘
  graph api token & publishing console
`

// Field is one labelled row of a panel
type Field struct {
	Label string
	Value string
}

var (
	mu       sync.Mutex
	stdout   io.Writer = os.Stdout
	stderr   io.Writer = os.Stderr
	renderer           = lipgloss.NewRenderer(os.Stdout)
	quiet    bool
)

type palette struct {
	logo, label, value, success, failure, warning, highlight, dim, panel lipgloss.Style
}

func styles() palette {
	return palette{
		logo:      renderer.NewStyle().Foreground(lipgloss.Color("#00FFFF")).Bold(true),
		label:     renderer.NewStyle().Foreground(lipgloss.Color("#00FFFF")).Bold(true),
		value:     renderer.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		success:   renderer.NewStyle().Foreground(lipgloss.Color("#39FF14")).Bold(true),
		failure:   renderer.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
		warning:   renderer.NewStyle().Foreground(lipgloss.Color("#FF6700")).Bold(true),
		highlight: renderer.NewStyle().Foreground(lipgloss.Color("#FF00FF")),
		dim:       renderer.NewStyle().Faint(true),
		panel: renderer.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF00FF")).
			Padding(0, 1),
	}
}

// SetOutput redirects normal output to out and errors to errOut. Color is
// detected from out.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	stdout, stderr = out, errOut
	renderer = lipgloss.NewRenderer(out)
}

// SetNoColor disables ANSI styling
func SetNoColor(disabled bool) {
	mu.Lock()
	defer mu.Unlock()
	if disabled {
		renderer.SetColorProfile(termenv.Ascii)
	}
}

// SetQuietMode suppresses everything except errors and explicit results
func SetQuietMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = enabled
}

func write(w io.Writer, s string) {
	fmt.Fprintln(w, s)
}

func withDetail(msg string, args []interface{}) string {
	if len(args) > 0 {
		return msg + ": " + fmt.Sprintf("%v", args[0])
	}
	return msg
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	fmt.Fprint(stdout, styles().logo.Render(ASCIILogo)+"\n")
}

// PrintError prints an error message in red to the error stream
func PrintError(msg string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	write(stderr, styles().failure.Render(withDetail(msg, args)))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	write(stdout, styles().success.Render(msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	s := styles()
	write(stdout, s.label.Render(label)+": "+s.value.Render(value))
}

// PrintWarning prints a warning message to the error stream
func PrintWarning(msg string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	write(stderr, styles().warning.Render(withDetail(msg, args)))
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	write(stdout, styles().highlight.Render(msg))
}

// PrintResult prints a value meant for scripts, even in quiet mode
func PrintResult(value string) {
	mu.Lock()
	defer mu.Unlock()
	write(stdout, value)
}

// PrintPanel renders fields as an aligned, bordered block. Empty values are
// shown dimmed as "-". In quiet mode only "label=value" lines are printed.
func PrintPanel(title string, fields []Field) {
	mu.Lock()
	defer mu.Unlock()

	if quiet {
		for _, f := range fields {
			write(stdout, f.Label+"="+f.Value)
		}
		return
	}

	s := styles()
	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}

	var b strings.Builder
	b.WriteString(s.highlight.Render(title))
	for _, f := range fields {
		b.WriteByte('\n')
		b.WriteString(s.label.Render(fmt.Sprintf("%-*s", width, f.Label)))
		b.WriteString("  ")
		if f.Value == "" {
			b.WriteString(s.dim.Render("-"))
		} else {
			b.WriteString(s.value.Render(f.Value))
		}
	}
	write(stdout, s.panel.Render(b.String()))
}
