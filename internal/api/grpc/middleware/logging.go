package middleware

import (
	"context"
	"log/slog"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"

	"github.com/dtroode/jobboard/internal/logger"
)

// Logging logs every finished unary call with its method, code and
// duration.
func Logging(l *logger.Logger) grpc.UnaryServerInterceptor {
	return logging.UnaryServerInterceptor(
		slogAdapter(l),
		logging.WithLogOnEvents(logging.FinishCall),
		logging.WithLevels(codeLevel),
	)
}

func slogAdapter(l *logger.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), "gRPC "+msg, fields...)
	})
}

// codeLevel keeps health probes at debug and reserves error for server
// faults.
func codeLevel(code codes.Code) logging.Level {
	switch code {
	case codes.OK:
		return logging.LevelDebug
	case codes.Canceled, codes.InvalidArgument, codes.NotFound, codes.AlreadyExists,
		codes.PermissionDenied, codes.Unauthenticated, codes.FailedPrecondition:
		return logging.LevelInfo
	case codes.DeadlineExceeded, codes.ResourceExhausted, codes.Unavailable:
		return logging.LevelWarn
	default:
		return logging.LevelError
	}
}
