package log

import "log/slog"

func Method(method string) slog.Attr {
	return slog.String("method", method)
}

func Path(path string) slog.Attr {
	return slog.String("path", path)
}

func Pattern(pattern string) slog.Attr {
	return slog.String("pattern", pattern)
}

func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

func Key[T ~string](key T) slog.Attr {
	return slog.String("key", string(key))
}

func Language[T ~string](lang T) slog.Attr {
	return slog.String("language", string(lang))
}

func FlowID[T ~string](id T) slog.Attr {
	return slog.String("flow_id", string(id))
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
