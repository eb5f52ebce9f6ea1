package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFile is where the application log is written. The TUI owns the terminal,
// so nothing is logged to stdout or stderr.
const LogFile = "blueprint-browser.log"

var (
	Log       *zap.SugaredLogger
	ZapLogger *zap.Logger // Expose the raw zap Logger
)

func init() {
	// Commands and tests that run before InitLogger still get a usable logger.
	ZapLogger = zap.NewNop()
	Log = ZapLogger.Sugar()
}

// encoderConfig is a compact console layout: time, level, message, then fields.
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "T", // Keep time key brief
		LevelKey:         "L",
		NameKey:          "N",
		CallerKey:        "",              // Disable caller key
		FunctionKey:      zapcore.OmitKey, // Disable function key
		MessageKey:       "M",
		StacktraceKey:    "S",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,                        // INFO, WARN, etc.
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"), // Simpler time format
		EncodeDuration:   zapcore.StringDurationEncoder,                      // fetch timings read as "182ms"
		EncodeCaller:     zapcore.ShortCallerEncoder,                         // Won't be used due to empty CallerKey
		ConsoleSeparator: "  ",                                               // Separator between elements in console output
	}
}

func InitLogger() {
	logFile, err := os.OpenFile(LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("can't open log file: %v", err)
	}

	level := zap.InfoLevel
	if os.Getenv("BLUEPRINT_DEBUG") != "" {
		level = zap.DebugLevel
	}

	// Write Info and above to the file, Debug too when BLUEPRINT_DEBUG is set
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(logFile),
		level,
	)

	ZapLogger = zap.New(core) // No caller or stacktrace annotations, for cleaner output
	Log = ZapLogger.Sugar()
	Log.Infow("Logger initialized", zap.String("file", LogFile), zap.Stringer("level", level))
}

func Sync() {
	if ZapLogger != nil {
		_ = ZapLogger.Sync() // flushes buffer, if any
	}
}
