// Package display prints operator-facing progress lines to the console.
package display

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

const separator = "==========================================================="

var out io.Writer = os.Stdout

// SetOutput redirects console output, mostly for tests.
func SetOutput(w io.Writer) {
	out = w
}

func PrintfWithTime(format string, a ...interface{}) {
	fmt.Fprintf(out, "[%s] ", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, format, a...)
}

func Println(a ...interface{}) {
	fmt.Fprintln(out, a...)
}

func Section(title string) {
	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, title)
}

func Info(format string, a ...interface{}) {
	fmt.Fprintln(out, color.HiBlueString(format, a...))
}

func Pending(format string, a ...interface{}) {
	fmt.Fprintln(out, color.HiYellowString(format, a...))
}

func Success(format string, a ...interface{}) {
	fmt.Fprintln(out, color.HiGreenString(format, a...))
}

func Fail(format string, a ...interface{}) {
	fmt.Fprintln(out, color.HiRedString(format, a...))
}
