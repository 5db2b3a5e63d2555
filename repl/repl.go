// Package repl implements the Read-Eval-Print Loop for Tang.
//
// The REPL provides an interactive interface for entering Tang source,
// compiling and running it, and seeing the result immediately. It uses
// the Charm libraries (Bubbletea, Bubbles, and Lipgloss) for a modern
// terminal interface with syntax highlighting and command history.
//
// The main entry point is Start, which initializes and runs the REPL.
package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tang-lang/tang/lexer"
	"github.com/tang-lang/tang/program"
	"github.com/tang-lang/tang/token"
	"github.com/tang-lang/tang/value"
)

const (
	// Prompt is the default prompt for the REPL.
	Prompt = ">> "

	// ContPrompt is the continuation prompt used in multiline input.
	ContPrompt = ".. "
)

// Options contains configuration options for the REPL.
type Options struct {
	NoColor bool // Disable syntax highlighting and colored output
	Debug   bool // Sets program.Flags.Debug; the REPL prints nothing extra
	NoJIT   bool // Force bytecode execution even on amd64
}

// Start initializes and runs the REPL with the given username and options.
func Start(username string, options Options) {
	p := tea.NewProgram(initialModel(username, options))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	parseErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)

	runtimeErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF8700")).
				Bold(true)

	errorTipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAF00"))

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF79C6")).
			Bold(true)

	identifierStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	literalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	operatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	delimiterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BD93F9"))

	stringStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))
)

// errKind distinguishes where a failed evaluation's error came from, for
// picking both a style and a set of tips in View.
type errKind int

const (
	noErr errKind = iota
	parseErr
	runtimeErr
)

type evalResultMsg struct {
	output  string
	isError bool
	kind    errKind
	native  bool
	elapsed time.Duration
}

type historyEntry struct {
	input          string
	output         string
	isError        bool
	kind           errKind
	native         bool
	evaluationTime time.Duration
}

type model struct {
	textInput       textinput.Model
	history         []historyEntry
	username        string
	evaluating      bool
	currentInput    string
	multilineBuffer string
	isMultiline     bool
	spinner         spinner.Model
	options         Options
}

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

func initialModel(username string, options Options) model {
	ti := textinput.New()
	ti.Placeholder = "Enter Tang code"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{
		textInput: ti,
		history:   []historyEntry{},
		username:  username,
		options:   options,
		spinner:   s,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// isBalanced reports whether brackets, braces and parens are balanced in
// input, used to decide whether Enter should evaluate or continue a
// multiline buffer.
func isBalanced(input string) bool {
	var stack []rune
	for _, char := range input {
		switch char {
		case '(', '{', '[':
			stack = append(stack, char)
		case ')':
			if len(stack) == 0 || stack[len(stack)-1] != '(' {
				return false
			}
			stack = stack[:len(stack)-1]
		case '}':
			if len(stack) == 0 || stack[len(stack)-1] != '{' {
				return false
			}
			stack = stack[:len(stack)-1]
		case ']':
			if len(stack) == 0 || stack[len(stack)-1] != '[' {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

// evalCmd compiles and runs input asynchronously, reporting the result (or
// the compile/runtime error) through an evalResultMsg.
func evalCmd(input string, options Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		prog, err := program.Create(input, program.Flags{Debug: options.Debug, DisableNative: options.NoJIT})
		if err != nil {
			return evalResultMsg{
				output:  formatParseError(err),
				isError: true,
				kind:    parseErr,
				elapsed: time.Since(start),
			}
		}
		defer prog.Destroy()

		ctx := value.NewContext()
		defer ctx.Destroy()

		result, err := prog.Execute(ctx)
		elapsed := time.Since(start)
		if err != nil {
			return evalResultMsg{
				output:  formatRuntimeError(err.Error()),
				isError: true,
				kind:    runtimeErr,
				native:  prog.HasNative(),
				elapsed: elapsed,
			}
		}

		out := ctx.Output()
		resultStr := "null"
		if result != nil {
			resultStr = result.ToString(ctx)
		}
		if out != "" {
			resultStr = out + resultStr
		}

		return evalResultMsg{
			output:  resultStr,
			native:  prog.HasNative(),
			elapsed: elapsed,
		}
	}
}

func (m model) formatError(style lipgloss.Style, entry *historyEntry, s *strings.Builder) {
	parts := strings.Split(entry.output, "\nTips:")
	if len(parts) > 1 {
		if m.options.NoColor {
			s.WriteString(parts[0])
		} else {
			s.WriteString(style.Render(parts[0]))
		}
		s.WriteString("\n")
		if m.options.NoColor {
			s.WriteString("Tips:" + parts[1])
		} else {
			s.WriteString(errorTipStyle.Render("Tips:" + parts[1]))
		}
		return
	}
	if m.options.NoColor {
		s.WriteString(entry.output)
	} else {
		s.WriteString(style.Render(entry.output))
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{
			input:          m.currentInput,
			output:         msg.output,
			isError:        msg.isError,
			kind:           msg.kind,
			native:         msg.native,
			evaluationTime: msg.elapsed,
		})
		m.currentInput = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.textInput.Value()
			if input == "" {
				if m.isMultiline {
					if m.multilineBuffer == "" {
						m.isMultiline = false
						return m, nil
					}
					m.evaluating = true
					m.currentInput = m.multilineBuffer
					m.textInput.SetValue("")
					m.isMultiline = false
					buffer := m.multilineBuffer
					m.multilineBuffer = ""
					return m, evalCmd(buffer, m.options)
				}
				return m, nil
			}

			if m.isMultiline {
				m.multilineBuffer += "\n" + input
				m.textInput.SetValue("")
				if isBalanced(m.multilineBuffer) {
					m.evaluating = true
					m.currentInput = m.multilineBuffer
					m.isMultiline = false
					buffer := m.multilineBuffer
					m.multilineBuffer = ""
					return m, evalCmd(buffer, m.options)
				}
				return m, nil
			}

			if !isBalanced(input) {
				m.isMultiline = true
				m.multilineBuffer = input
				m.textInput.SetValue("")
				return m, nil
			}

			m.evaluating = true
			m.currentInput = input
			m.textInput.SetValue("")
			return m, evalCmd(input, m.options)
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, " Tang REPL "))
	s.WriteString("\n")

	if m.username != "" {
		s.WriteString(fmt.Sprintf("\nHello %s! Feel free to type in commands\n", m.username))
	}
	s.WriteString("\n")

	for _, entry := range m.history {
		lines := strings.Split(entry.input, "\n")
		for i, line := range lines {
			if i == 0 {
				s.WriteString(m.applyStyle(promptStyle, Prompt))
			} else {
				s.WriteString(m.applyStyle(promptStyle, ContPrompt))
			}
			s.WriteString(m.highlightCode(line))
			s.WriteString("\n")
		}

		if entry.isError {
			switch entry.kind {
			case parseErr:
				m.formatError(parseErrorStyle, &entry, &s)
			case runtimeErr:
				m.formatError(runtimeErrorStyle, &entry, &s)
			default:
				if m.options.NoColor {
					s.WriteString(entry.output)
				} else {
					s.WriteString(errorStyle.Render(entry.output))
				}
			}
		} else {
			if m.options.NoColor {
				s.WriteString(entry.output)
			} else {
				s.WriteString(resultStyle.Render(entry.output))
			}
			if entry.native {
				s.WriteString(m.applyStyle(historyStyle, " [native]"))
			}
		}

		if entry.evaluationTime > 10*time.Millisecond {
			timeStr := fmt.Sprintf(" (%.2fs)", entry.evaluationTime.Seconds())
			s.WriteString(m.applyStyle(historyStyle, timeStr))
		}

		s.WriteString("\n\n")
	}

	if m.evaluating {
		s.WriteString(m.applyStyle(promptStyle, Prompt))
		s.WriteString(m.highlightCode(m.currentInput))
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" Evaluating...\n\n")
	}

	if m.isMultiline && !m.evaluating {
		s.WriteString(m.applyStyle(historyStyle, "Current multiline input:\n"))
		s.WriteString(m.highlightCode(m.multilineBuffer))
		s.WriteString("\n")
	}

	if !m.evaluating {
		if m.isMultiline {
			m.textInput.Prompt = m.applyStyle(promptStyle, ContPrompt)
		} else {
			m.textInput.Prompt = m.applyStyle(promptStyle, Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	helpText := "\nPress Esc or Ctrl+C/D to exit"
	if m.isMultiline {
		helpText += " | Multiline mode: enter an empty line to evaluate"
	} else {
		helpText += " | Multiline input supported for unbalanced brackets"
	}
	s.WriteString(m.applyStyle(historyStyle, helpText))

	return s.String()
}

// formatParseError formats a Create error (lex/parse/simplify/analyze)
// into a string with a short list of likely causes.
func formatParseError(err error) string {
	var s strings.Builder
	s.WriteString("Parse Error:\n  ")
	s.WriteString(err.Error())
	s.WriteString("\n")

	s.WriteString("\nTips:\n")
	s.WriteString("  • Check for missing parentheses, braces, or brackets\n")
	s.WriteString("  • Verify every statement has a complete expression\n")
	s.WriteString("  • Ensure identifiers are valid names\n")
	return s.String()
}

// formatRuntimeError formats a runtime error with tips keyed off common
// failure patterns.
func formatRuntimeError(errorMsg string) string {
	var s strings.Builder
	s.WriteString("Runtime Error:\n  ")
	s.WriteString(errorMsg)
	s.WriteString("\n")

	s.WriteString("\nTips:\n")
	switch {
	case strings.Contains(errorMsg, "not found") || strings.Contains(errorMsg, "undeclared"):
		s.WriteString("  • Check the variable is declared before use\n")
		s.WriteString("  • Verify the spelling and that it's in scope\n")
	case strings.Contains(errorMsg, "argument"):
		s.WriteString("  • Check the function call's argument count\n")
	case strings.Contains(errorMsg, "type") || strings.Contains(errorMsg, "Type"):
		s.WriteString("  • Ensure operands are of compatible types\n")
		s.WriteString("  • Use as_int/as_float/as_bool/as_string to convert explicitly\n")
	case strings.Contains(errorMsg, "index") || strings.Contains(errorMsg, "bounds"):
		s.WriteString("  • Verify array/string indices are within bounds\n")
	default:
		s.WriteString("  • Review the code's logic around the reported position\n")
	}
	return s.String()
}

// keywordTypes lists the token kinds highlightCode renders with
// keywordStyle.
var keywordTypes = map[token.Type]bool{
	token.FUNCTION: true, token.TRUE: true, token.FALSE: true, token.NULL: true,
	token.IF: true, token.ELSE: true, token.WHILE: true, token.DO: true,
	token.FOR: true, token.IN: true, token.BREAK: true, token.CONTINUE: true,
	token.RETURN: true, token.GLOBAL: true, token.USE: true, token.PRINT: true,
	token.AS_INT: true, token.AS_FLOAT: true, token.AS_BOOL: true, token.AS_STR: true,
}

var operatorTypes = map[token.Type]bool{
	token.ASSIGN: true, token.PLUS: true, token.MINUS: true, token.BANG: true,
	token.ASTERISK: true, token.SLASH: true, token.PERCENT: true,
	token.LT: true, token.LTE: true, token.GT: true, token.GTE: true,
	token.EQ: true, token.NOT_EQ: true, token.AND: true, token.OR: true,
	token.QUESTION: true,
}

var delimiterTypes = map[token.Type]bool{
	token.COMMA: true, token.COLON: true, token.SEMICOLON: true, token.DOT: true,
	token.LPAREN: true, token.RPAREN: true, token.LBRACE: true, token.RBRACE: true,
	token.LBRACKET: true, token.RBRACKET: true,
}

// highlightCode colorizes a single snippet of Tang source by token kind.
// Unlike the teacher's pretty-printer, it does not reflow or re-indent
// the input — Tang statements aren't semicolon-delimited the same way,
// so reformatting would need its own layout pass; this sticks to coloring
// the tokens the user actually typed.
func (m model) highlightCode(code string) string {
	if m.options.NoColor {
		return code
	}

	l := lexer.New(code)
	var s strings.Builder
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		switch {
		case keywordTypes[tok.Type]:
			s.WriteString(keywordStyle.Render(tok.Literal))
		case tok.Type == token.IDENT:
			s.WriteString(identifierStyle.Render(tok.Literal))
		case tok.Type == token.INT || tok.Type == token.FLOAT:
			s.WriteString(literalStyle.Render(tok.Literal))
		case tok.Type == token.STRING:
			s.WriteString(stringStyle.Render("\"" + tok.Literal + "\""))
		case operatorTypes[tok.Type]:
			s.WriteString(operatorStyle.Render(tok.Literal))
		case delimiterTypes[tok.Type]:
			s.WriteString(delimiterStyle.Render(tok.Literal))
		default:
			s.WriteString(tok.Literal)
		}
		s.WriteString(" ")
	}
	return strings.TrimRight(s.String(), " ")
}
