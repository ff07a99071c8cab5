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

package commander

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/runepad/runepad/buffer"
	"github.com/runepad/runepad/execution"
	"github.com/runepad/runepad/textfmt"
	"github.com/runepad/runepad/types"
)

// The Commander converts command text into calls on the engine, the
// registers, and the scratch buffer.
type Commander struct {
	engine     *execution.Engine
	registers  types.Registers
	buffer     *buffer.Buffer
	running    bool
	currentRow int    // current row, moved by line number commands
	message    string // status message
}

func NewCommander(engine *execution.Engine, registers types.Registers, b *buffer.Buffer) *Commander {
	return &Commander{
		engine:    engine,
		registers: registers,
		buffer:    b,
		running:   true,
	}
}

func (c *Commander) IsRunning() bool {
	return c.running
}

func (c *Commander) GetBuffer() *buffer.Buffer {
	return c.buffer
}

func (c *Commander) GetMessage() string {
	return c.message
}

// PerformCommand runs one command and returns the status message.
// Unknown commands produce a message, never an error.
func (c *Commander) PerformCommand(text string) string {
	c.message = ""
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return c.message
	}
	parts := strings.Fields(trimmed)
	rest := strings.TrimSpace(trimmed[len(parts[0]):])

	if row, err := strconv.ParseInt(parts[0], 10, 64); err == nil {
		c.moveToRow(int(row - 1))
		return c.message
	}
	if strings.HasPrefix(parts[0], "@") {
		c.executeRegister(strings.TrimPrefix(parts[0], "@"), rest)
		return c.message
	}

	switch parts[0] {
	case "q", "quit":
		c.running = false
	case "$":
		c.moveToRow(c.buffer.GetRowCount() - 1)
	case "p", "print":
		c.message = c.buffer.GetRow(c.currentRow)
	case "clear":
		c.buffer.Clear()
		c.currentRow = 0
	case "r", "read":
		if len(parts) == 2 {
			c.readFile(parts[1])
		} else {
			c.message = "read requires a file name"
		}
	case "w", "write":
		fileName := c.buffer.GetFileName()
		if len(parts) == 2 {
			fileName = parts[1]
		}
		c.writeFile(fileName)
	case "fmt":
		formatType := textfmt.FormatAuto
		if len(parts) == 2 {
			formatType = parts[1]
		}
		c.formatBuffer(formatType)
	case "run", "eval":
		language := c.buffer.GetLanguage()
		if len(parts) == 2 {
			language = parts[1]
		}
		outcome := c.engine.Execute(c.buffer.Text(), language)
		c.message = outcome.FormattedResult
	case "reg", "registers":
		if len(parts) >= 2 && parts[1] == "clear" {
			c.clearRegisters(parts[2:])
		} else {
			c.listRegisters()
		}
	case "lang", "languages":
		c.message = strings.Join(c.engine.Languages(), " ")
	case "default":
		if len(parts) == 2 {
			if err := c.engine.SetDefaultLanguage(parts[1]); err != nil {
				c.message = err.Error()
			} else {
				c.message = "default language is " + strings.ToLower(parts[1])
			}
		} else {
			c.message = "default language is " + c.engine.GetDefaultLanguage()
		}
	default:
		if c.engine.Supports(parts[0]) && rest != "" {
			outcome := c.engine.Execute(rest, parts[0])
			c.message = outcome.FormattedResult
		} else {
			c.message = "unknown command: " + parts[0]
		}
	}
	return c.message
}

func (c *Commander) moveToRow(row int) {
	if row > c.buffer.GetRowCount()-1 {
		row = c.buffer.GetRowCount() - 1
	}
	if row < 0 {
		row = 0
	}
	c.currentRow = row
	c.message = c.buffer.GetRow(c.currentRow)
}

func (c *Commander) executeRegister(key string, language string) {
	outcome := c.engine.ExecuteFromRegister(key, c.registers.Get, language)
	c.message = outcome.FormattedResult
}

func (c *Commander) formatBuffer(formatType string) {
	result, err := textfmt.Format(c.buffer.Text(), formatType)
	if err != nil {
		c.message = err.Error()
		return
	}
	c.buffer.LoadString(result.Text)
	c.message = "formatted as " + result.Format
}

func (c *Commander) listRegisters() {
	names := c.registers.Names()
	if len(names) == 0 {
		c.message = "no registers"
		return
	}
	lines := make([]string, 0, len(names))
	for _, name := range names {
		value, _ := c.registers.Get(name)
		lines = append(lines, fmt.Sprintf("%s = %s", name, value))
	}
	c.message = strings.Join(lines, "\n")
}

func (c *Commander) clearRegisters(names []string) {
	if len(names) == 0 {
		names = c.registers.Names()
	}
	for _, name := range names {
		c.registers.Clear(name)
	}
	c.message = "cleared"
}

func (c *Commander) readFile(fileName string) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		c.message = err.Error()
		return
	}
	c.buffer.LoadBytes(data)
	c.buffer.SetFileName(fileName)
	c.currentRow = 0
	c.message = fmt.Sprintf("read %s (%d rows)", fileName, c.buffer.GetRowCount())
}

func (c *Commander) writeFile(fileName string) {
	if fileName == "" {
		c.message = "write requires a file name"
		return
	}
	if err := os.WriteFile(fileName, c.buffer.Bytes(), 0644); err != nil {
		c.message = err.Error()
		return
	}
	c.buffer.SetFileName(fileName)
	c.message = "wrote " + fileName
}
