// Command paanini is the language toolchain: REPL, file runner with watch
// mode, native compiler (via Go) and the web IDE server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/paanini-lang/paanini"
	"github.com/paanini-lang/paanini/ide"
)

const (
	appName     = "paanini"
	historyFile = ".paanini_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var (
	app = kingpin.New(appName, "Paanini — a Sanskrit programming language with Python-style indentation.")

	replCmd = app.Command("repl", "Start the interactive REPL.").Default()

	runCmd     = app.Command("run", "Run a .panini source file.")
	runFile    = runCmd.Arg("file", "Path to the source file.").Required().ExistingFile()
	runVerbose = runCmd.Flag("verbose", "Log detail about the run.").Short('v').Bool()
	runWatch   = runCmd.Flag("watch", "Re-run the file whenever it changes.").Short('w').Bool()

	buildCmd  = app.Command("build", "Compile a .panini file to a native binary via Go.")
	buildFile = buildCmd.Arg("file", "Path to the source file.").Required().ExistingFile()
	buildOut  = buildCmd.Flag("output", "Output binary path.").Short('o').Default("output").String()
	buildEmit = buildCmd.Flag("emit-only", "Write the generated Go source next to the output path and stop.").Bool()

	serveCmd    = app.Command("serve", "Start the web IDE server.")
	serveAddr   = serveCmd.Flag("address", "Address to listen on (overrides the configuration file).").Short('l').String()
	serveConfig = serveCmd.Flag("config", "Server configuration file (YAML).").Short('c').String()
	serveDebug  = serveCmd.Flag("debug", "Run the server in debug mode.").Short('d').Bool()

	exampleCmd = app.Command("example", "Print an example program.")

	log = logrus.New()
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	app.Version(paanini.Version)
	app.HelpFlag.Short('h')

	switch kingpin.MustParse(app.Parse(os.Args[1:])) {
	case replCmd.FullCommand():
		os.Exit(cmdRepl())
	case runCmd.FullCommand():
		os.Exit(cmdRun(*runFile, *runVerbose, *runWatch))
	case buildCmd.FullCommand():
		os.Exit(cmdBuild(*buildFile, *buildOut, *buildEmit))
	case serveCmd.FullCommand():
		os.Exit(cmdServe(*serveAddr, *serveConfig, *serveDebug))
	case exampleCmd.FullCommand():
		fmt.Print(exampleProgram)
	}
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Printf("Paanini %s REPL\n", paanini.Version)
	fmt.Println("Ctrl+C cancels input, Ctrl+D exits. Type help or सहायता for a summary.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	sess := paanini.NewSession(os.Stdout)

	for {
		prompt := promptMain
		if sess.Pending() {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			sess.Reset()
			fmt.Println(blue("(cancelled)"))
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}

		// Shell-level commands only apply to a fresh line, never inside a
		// buffered block.
		if !sess.Pending() {
			switch strings.TrimSpace(line) {
			case "exit", "quit", "बाहर":
				return 0
			case "clear", "स्पष्ट":
				fmt.Print("\x1b[2J\x1b[H")
				continue
			}
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if !sess.Feed(line) {
			continue
		}
		unit := sess.Buffered()
		if err := sess.Flush(); err != nil {
			fmt.Fprintln(os.Stderr, red(paanini.WrapErrorWithSource(err, unit).Error()))
		}
	}
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(file string, verbose, watch bool) int {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if !strings.HasSuffix(file, ".panini") {
		log.WithField("file", file).Warn("file does not have the .panini extension")
	}

	code := runOnce(file)
	if !watch {
		return code
	}
	return watchLoop(file)
}

func runOnce(file string) int {
	src, err := os.ReadFile(file)
	if err != nil {
		log.WithError(err).Error("cannot read file")
		return 1
	}
	start := time.Now()
	sess := paanini.NewSession(os.Stdout)
	if err := sess.Run(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, red(paanini.WrapErrorWithName(err, filepath.Base(file), string(src)).Error()))
		return 1
	}
	log.WithFields(logrus.Fields{
		"file":  file,
		"bytes": len(src),
		"took":  time.Since(start),
	}).Debug("run finished")
	return 0
}

func watchLoop(file string) int {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Error("cannot start watcher")
		return 1
	}
	defer w.Close()

	// Watch the directory: many editors replace the file on save, which
	// drops inotify watches placed on the file itself.
	if err := w.Add(filepath.Dir(file)); err != nil {
		log.WithError(err).Error("cannot watch directory")
		return 1
	}
	log.WithField("file", file).Info("watching for changes, Ctrl+C stops")

	target := filepath.Clean(file)
	var last time.Time
	for {
		select {
		case evt, ok := <-w.Events:
			if !ok {
				return 0
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if time.Since(last) < 100*time.Millisecond {
				continue // editors fire bursts of events per save
			}
			last = time.Now()
			log.WithField("event", evt.Op.String()).Debug("change detected")
			runOnce(file)
		case werr, ok := <-w.Errors:
			if !ok {
				return 0
			}
			log.WithError(werr).Warn("watch error")
		}
	}
}

// -----------------------------------------------------------------------------
// build
// -----------------------------------------------------------------------------

func cmdBuild(file, out string, emitOnly bool) int {
	src, err := os.ReadFile(file)
	if err != nil {
		log.WithError(err).Error("cannot read file")
		return 1
	}
	prog, err := paanini.Parse(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, red(paanini.WrapErrorWithName(err, filepath.Base(file), string(src)).Error()))
		return 1
	}
	code, err := paanini.Transpile(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	if emitOnly {
		goFile := out + ".go"
		if err := os.WriteFile(goFile, []byte(code), 0o644); err != nil {
			log.WithError(err).Error("cannot write generated source")
			return 1
		}
		fmt.Println(green("wrote " + goFile))
		return 0
	}

	absOut, err := filepath.Abs(out)
	if err != nil {
		log.WithError(err).Error("cannot resolve output path")
		return 1
	}
	tmp, err := os.MkdirTemp("", "paanini-build-")
	if err != nil {
		log.WithError(err).Error("cannot create build directory")
		return 1
	}
	defer os.RemoveAll(tmp)

	goFile := filepath.Join(tmp, "main.go")
	if err := os.WriteFile(goFile, []byte(code), 0o644); err != nil {
		log.WithError(err).Error("cannot write generated source")
		return 1
	}

	log.WithField("output", out).Info("compiling")
	build := exec.Command("go", "build", "-o", absOut, goFile)
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		log.WithError(err).Error("go build failed")
		return 1
	}
	fmt.Println(green("built " + out))
	return 0
}

// -----------------------------------------------------------------------------
// serve
// -----------------------------------------------------------------------------

func cmdServe(addr, cfgPath string, debug bool) int {
	srv := ide.NewServer()
	if cfgPath != "" {
		if err := srv.ParseConfig(cfgPath); err != nil {
			log.Error(err.Error())
			return 1
		}
	}
	if addr != "" {
		srv.Config.ListenAddress = addr
	}
	if debug {
		srv.Config.DebugMode = true
	}
	if err := srv.Prepare(); err != nil {
		log.Error(err.Error())
		return 1
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	select {
	case err := <-errc:
		if err != nil {
			log.WithError(err).Error("server failed")
			return 1
		}
		return 0
	case <-sigc:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("shutdown was not clean")
		}
		<-errc
		return 0
	}
}

// -----------------------------------------------------------------------------
// example
// -----------------------------------------------------------------------------

const exampleProgram = `!! A small Paanini program. Save as hello.panini and run:
!!   paanini run hello.panini

योग = 0
परिभ्रमण i in परिधि(10):
    योग = योग + i

दर्श("0 से 9 का योग: " + योग)

यदि (योग > 40):
    दर्श("बड़ी संख्या")
अन्यथा:
    दर्श("छोटी संख्या")

कार्य नमन(नाम):
    दर्श("नमस्ते, " + नाम)

नमन("पाणिनि")
`
