package log

import "log/slog"

func FlowID[T ~string](id T) slog.Attr {
	return slog.String("flow_id", string(id))
}

func ItemID[T ~string](id T) slog.Attr {
	return slog.String("item_id", string(id))
}

func Session[T ~string](id T) slog.Attr {
	return slog.String("session_id", string(id))
}

func State[T ~string](state T) slog.Attr {
	return slog.String("state", string(state))
}

func Endpoint(url string) slog.Attr {
	return slog.String("endpoint", url)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}

func ErrorString(msg string) slog.Attr {
	return slog.String("error", msg)
}
