package goroutine

import (
	"context"
	"log"
	"runtime/debug"
)

// Logger принимает сообщения о panic в фоновых горутинах.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler запускает горутины, переживающие panic.
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создаёт обработчик с заданным логгером.
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает fn в горутине. Panic логируется вместе со стеком
// вместо падения процесса.
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer rh.recoverPanic()
		fn()
	}()
}

// SafeGoWithContext запускает fn в горутине, передавая ей контекст.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer rh.recoverPanic()
		fn(ctx)
	}()
}

func (rh *RecoveryHandler) recoverPanic() {
	if r := recover(); r != nil {
		rh.logger.Errorf("goroutine: panic: %v\n%s", r, debug.Stack())
	}
}

// stdLogger пишет через стандартный log, пока структурированный логгер
// ещё не инициализирован.
type stdLogger struct{}

func (stdLogger) Errorf(format string, args ...interface{}) {
	log.Printf("[ERROR] "+format, args...)
}

// DefaultRecoveryHandler используется свободными функциями SafeGo.
var DefaultRecoveryHandler = NewRecoveryHandler(stdLogger{})

// SafeGo запускает горутину через DefaultRecoveryHandler.
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

// SafeGoWithContext запускает горутину с контекстом через DefaultRecoveryHandler.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
