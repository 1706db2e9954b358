// session.go: the execution driver.
//
// A Session owns one evaluator for its whole lifetime and feeds it execution
// units: a complete file in one-shot mode, or accumulated REPL lines in
// incremental mode. Variables and functions defined by one unit remain
// visible to the next, and a failed unit never wipes earlier state.
//
// Incremental input follows the blank-line convention: once a unit has
// opened a block (its tokens contain an INDENT), further lines are buffered
// until an empty line closes all open blocks. Single-line units execute
// immediately. A line ending in ':' keeps the unit open via the interactive
// lexer probe; everything else in this language fits on one logical line, so
// any other malformed line is reported at once.
//
// The meta-command help / सहायता is recognized before lexing and prints a
// static summary instead of entering the pipeline.
package paanini

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Session drives a persistent interpreter. All methods are safe for
// concurrent use; units execute one at a time.
type Session struct {
	mu  sync.Mutex
	ev  *Evaluator
	buf []string // interactive lines not yet executed
}

// NewSession creates a session whose दर्श output goes to out. A nil out
// discards all output.
func NewSession(out io.Writer) *Session {
	return &Session{ev: NewEvaluator(out)}
}

// Run lexes, parses and evaluates src as one unit, stopping at the first
// error. Definitions persist for later calls.
func (s *Session) Run(src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec(src)
}

// RunCapture runs src like Run but collects everything the unit printed and
// returns it, instead of writing to the session's usual sink.
func (s *Session) RunCapture(src string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out bytes.Buffer
	saved := s.ev.out
	s.ev.out = &out
	err := s.exec(src)
	s.ev.out = saved
	return out.String(), err
}

// Feed appends one line of interactive input. It reports true when the
// accumulated input forms a complete unit and Flush should run it, false
// when the session expects continuation lines.
func (s *Session) Feed(line string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, line)
	src := strings.Join(s.buf, "\n")
	trimmed := strings.TrimSpace(src)
	if trimmed == "" || isMetaCommand(trimmed) {
		return true
	}
	toks, err := NewLexerInteractive(src).Scan()
	if err != nil {
		// Hard errors flush immediately so the caller can report them;
		// only an open block keeps the unit growing.
		return !IsIncomplete(err)
	}
	if opensBlock(toks) && strings.TrimSpace(line) != "" {
		return false
	}
	if _, err := ParseInteractive(src); IsIncomplete(err) {
		return false
	}
	return true
}

// Flush executes the accumulated interactive input and clears the buffer.
func (s *Session) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := strings.Join(s.buf, "\n")
	s.buf = nil
	if strings.TrimSpace(src) == "" {
		return nil
	}
	return s.exec(src)
}

// Pending reports whether continuation lines are buffered.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf) > 0
}

// Buffered returns the not-yet-executed interactive input as one source
// string, so front ends can render error snippets for the unit they just
// flushed.
func (s *Session) Buffered() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.buf, "\n")
}

// Reset drops any buffered interactive input, e.g. after Ctrl-C.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = nil
}

// exec runs one unit. The caller holds s.mu.
func (s *Session) exec(src string) error {
	if isMetaCommand(strings.TrimSpace(src)) {
		fmt.Fprint(s.ev.out, helpText)
		return nil
	}
	prog, err := Parse(src)
	if err != nil {
		return err
	}
	return s.ev.Run(prog)
}

func isMetaCommand(s string) bool {
	return s == "help" || s == "सहायता"
}

// opensBlock reports whether the unit contains at least one indented block.
func opensBlock(toks []Token) bool {
	for _, t := range toks {
		if t.Type == INDENT {
			return true
		}
	}
	return false
}

const helpText = `Paanini — a Sanskrit programming language

  x = 5                        assignment
  दर्श("नमस्ते")                 print one value
  यदि (x < 10):                if; optional अन्यथा: branch follows
  यावत् (x < 5):                while loop (capped at 10000 iterations)
  परिभ्रमण i in परिधि(5):        for loop over 0..4
  कार्य नमन(नाम):               define a function; call it as नमन("क")
  !! comment                   comments start with !! or #

Blocks are indented, Python-style, after a line ending in ':'.
Type help or सहायता to see this summary again.
`
