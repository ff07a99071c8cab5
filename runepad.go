//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/runepad/runepad/buffer"
	"github.com/runepad/runepad/commander"
	"github.com/runepad/runepad/execution"
	"github.com/runepad/runepad/lang/javascript"
	"github.com/runepad/runepad/lang/lisp"
	"github.com/runepad/runepad/lang/starlark"
	"github.com/runepad/runepad/registers"
	"github.com/runepad/runepad/types"
)

// resultSink routes formatted results into the register named by the
// configuration, whatever name the engine asks for.
type resultSink struct {
	store types.Registers
	name  string
}

func (s *resultSink) Set(_ string, value string) {
	s.store.Set(s.name, value)
}

func main() {

	filenames := make([]string, 0)
	var script string
	var language string
	var logFile string

	for i := 1; i < len(os.Args); i++ {
		argi := os.Args[i]
		switch argi {
		case "--eval": // run a script file and exit
			i++
			if i < len(os.Args) {
				script = os.Args[i]
			} else {
				log.Output(1, "No file specified for --eval option")
				os.Exit(1)
			}
		case "--lang": // language for scripts and unrecognized files
			i++
			if i < len(os.Args) {
				language = os.Args[i]
			} else {
				log.Output(1, "No language specified for --lang option")
				os.Exit(1)
			}
		case "--log": // log destination for interactive sessions
			i++
			if i < len(os.Args) {
				logFile = os.Args[i]
			} else {
				log.Output(1, "No file specified for --log option")
				os.Exit(1)
			}
		default:
			// If a file was specified on the command line, read it.
			filenames = append(filenames, os.Args[i])
		}
	}

	config := loadConfig(os.Getenv("HOME") + "/.runepad.toml")
	if logFile == "" {
		logFile = os.Getenv("HOME") + "/.runepadlog"
	}

	// The register store holds named results across executions.
	store := registers.NewStore()

	// The engine manages all code execution.
	engine := execution.NewEngine(&resultSink{store: store, name: config.ResultsRegister})
	registerExecutors(engine)

	defaultLanguage := config.DefaultLanguage
	if language != "" {
		defaultLanguage = language
	}
	if err := engine.SetDefaultLanguage(defaultLanguage); err != nil {
		log.Output(1, err.Error())
		os.Exit(1)
	}

	b := buffer.NewBuffer("scratch")

	// The commander converts user inputs into commands for the engine.
	c := commander.NewCommander(engine, store, b)

	for _, filename := range filenames {
		fileinfo, err := os.Stat(filename)
		if err != nil {
			// a file that doesn't exist yet names an empty buffer
			b.SetFileName(filename)
			continue
		}
		if fileinfo.IsDir() {
			log.Printf("%s is a directory", filename)
			continue
		}
		data, err := os.ReadFile(filename)
		if err != nil {
			log.Output(1, err.Error())
			continue
		}
		b.LoadBytes(data)
		b.SetFileName(filename)
	}

	if script != "" {
		// Run a script file through the engine and exit.
		runScript(engine, script, language)
		return
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	if interactive {
		// Open a log file; the terminal belongs to the session.
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0666)
		if err != nil {
			log.Output(1, err.Error())
			return
		}
		log.SetOutput(f)
		defer f.Close()

		fmt.Printf("runepad (languages: %s %s %s)\n",
			types.LanguageJavaScript, types.LanguageStarlark, types.LanguageLisp)
		fmt.Println("type code into the buffer; :run evaluates it, :q quits")
	}

	// Run the main input loop.
	scanner := bufio.NewScanner(os.Stdin)
	for c.IsRunning() {
		if interactive {
			fmt.Print(config.Prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.HasPrefix(line, ":") {
			if message := c.PerformCommand(strings.TrimPrefix(line, ":")); message != "" {
				fmt.Println(message)
			}
		} else {
			b.AppendLine(line)
		}
	}
}

func registerExecutors(engine *execution.Engine) {
	js := javascript.NewExecutor()
	engine.RegisterExecutor(types.LanguageJavaScript, js)
	engine.RegisterExecutor("js", js)
	engine.RegisterExecutor("ecmascript", js)

	sl := starlark.NewExecutor()
	engine.RegisterExecutor(types.LanguageStarlark, sl)
	engine.RegisterExecutor("star", sl)
	engine.RegisterExecutor("sl", sl)
	engine.RegisterExecutor("python", sl)

	lc := lisp.NewExecutor()
	engine.RegisterExecutor(types.LanguageLisp, lc)
	engine.RegisterExecutor("golisp", lc)
}

// runScript reads a file, executes it, prints the formatted outcome, and
// exits non-zero when execution failed. The language comes from --lang or
// from the file extension, falling back to the engine default.
func runScript(engine *execution.Engine, fileName string, language string) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		log.Output(1, err.Error())
		os.Exit(1)
	}
	if language == "" {
		language = buffer.LanguageForFileName(fileName)
	}
	outcome := engine.Execute(string(data), language)
	fmt.Println(outcome.FormattedResult)
	if !outcome.Success {
		os.Exit(1)
	}
}
