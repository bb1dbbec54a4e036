package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const FieldComponent = "component"

// Common structured-log field names used across the tool.
const (
	FieldContract = "contract"
	FieldAddress  = "address"
	FieldArtifact = "artifact"
	FieldSeqno    = "seqno"
	FieldOpCode   = "opCode"
	FieldBalance  = "balance"
	FieldNetwork  = "network"
)

type Logger = zerolog.Logger

// SetupGlobalLevel parses and applies the global log level.
func SetupGlobalLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

func makeBold(str any, disabled bool) string {
	const colorBold = 1

	if disabled {
		return fmt.Sprintf("%s", str)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", colorBold, str)
}

func makeComponentFormatter(noColor bool) zerolog.Formatter {
	return func(c any) string {
		return makeBold(fmt.Sprintf("[%s]\t", c), noColor)
	}
}

// NewLogger returns a console logger tagged with the given component name.
func NewLogger(component string) Logger {
	return newConsoleLogger(component).With().
		Str(FieldComponent, component).
		Timestamp().
		Logger()
}

// NewLoggerWithWriter returns a component logger writing raw JSON to the given writer.
func NewLoggerWithWriter(component string, writer io.Writer) Logger {
	return zerolog.New(writer).With().
		Str(FieldComponent, component).
		Timestamp().
		Logger()
}

func newConsoleLogger(component string) zerolog.Logger {
	noColor := os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd()))

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			FieldComponent,
			zerolog.MessageFieldName,
		},
		FieldsExclude:    []string{FieldComponent},
		FormatFieldValue: makeComponentFormatter(noColor),
		NoColor:          noColor,
	}
	return zerolog.New(consoleWriter)
}

func Nop() Logger {
	return zerolog.Nop()
}
