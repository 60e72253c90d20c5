package logger

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

// Newはアプリ共通のJSONロガーを作る。echoのe.Loggerにもそのまま渡せる。
func New(prefix string, level string, out io.Writer) *log.Logger {
	if out == nil {
		out = os.Stdout
	}

	l := log.New(prefix)
	l.SetOutput(out)
	l.SetHeader(`{"time":"${time_rfc3339_nano}","level":"${level}","prefix":"${prefix}"}`)
	l.SetLevel(ParseLevel(level))
	return l
}

// ParseLevelはLOG_LEVELの文字列をgommonのレベルに変換する（不明ならINFO）
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
