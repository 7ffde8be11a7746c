package main

import (
	"fmt"
	"io"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger returns a logger printing bare messages to w.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.LevelKey = ""
	encoderConfig.NameKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.StacktraceKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core)
}

func logCloser(c io.Closer, l *zap.Logger) {
	if err := c.Close(); err != nil {
		l.Error("failed to close handle", zap.Error(err))
	}
}

// formatDriverError prints the details of a database server error found in err's chain.
func formatDriverError(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		msg := fmt.Sprintf("Severity   : %s\n", pqErr.Severity)
		msg += fmt.Sprintf("Error Code : %s (%s)\n", pqErr.Code, pqErr.Code.Name())
		msg += fmt.Sprintf("Message    : %s\n", pqErr.Message)
		if pqErr.Detail != "" {
			msg += fmt.Sprintf("Detail     : %s\n", pqErr.Detail)
		}
		if pqErr.Hint != "" {
			msg += fmt.Sprintf("Hint       : %s\n", pqErr.Hint)
		}
		if pqErr.Position != "" {
			msg += fmt.Sprintf("Position   : %s\n", pqErr.Position)
		}
		return msg, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg := fmt.Sprintf("Severity   : %s\n", pgErr.Severity)
		msg += fmt.Sprintf("Error Code : %s\n", pgErr.Code)
		msg += fmt.Sprintf("Message    : %s\n", pgErr.Message)
		if pgErr.Detail != "" {
			msg += fmt.Sprintf("Detail     : %s\n", pgErr.Detail)
		}
		if pgErr.Hint != "" {
			msg += fmt.Sprintf("Hint       : %s\n", pgErr.Hint)
		}
		if pgErr.Position != 0 {
			msg += fmt.Sprintf("Position   : %d\n", pgErr.Position)
		}
		return msg, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		msg := fmt.Sprintf("Error Code : %d", myErr.Number)
		if myErr.SQLState != [5]byte{} {
			msg += fmt.Sprintf(" (%s)", myErr.SQLState[:])
		}
		msg += "\n"
		msg += fmt.Sprintf("Message    : %s\n", myErr.Message)
		return msg, true
	}

	return "", false
}
