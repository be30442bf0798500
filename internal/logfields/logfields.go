// Package logfields keeps log attribute names consistent across packages.
package logfields

import "log/slog"

const (
	KeyKey     = "key"
	KeyMode    = "mode"
	KeyState   = "state"
	KeyEvent   = "event"
	KeySession = "session_id"
	KeyPath    = "path"
	KeySeconds = "seconds"
	KeyError   = "error"
)

func Key(k string) slog.Attr         { return slog.String(KeyKey, k) }
func Mode(m string) slog.Attr        { return slog.String(KeyMode, m) }
func State(s string) slog.Attr       { return slog.String(KeyState, s) }
func Event(e string) slog.Attr       { return slog.String(KeyEvent, e) }
func Session(id string) slog.Attr    { return slog.String(KeySession, id) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Seconds(secs float64) slog.Attr { return slog.Float64(KeySeconds, secs) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
