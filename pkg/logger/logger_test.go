package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitConfiguresGlobalLogger(t *testing.T) {
	t.Cleanup(func() { Replace(nil) })

	require.NoError(t, Init("debug"))

	logger := Logger()
	require.NotNil(t, logger)
	require.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestInitFallsBackToInfoOnUnknownLevel(t *testing.T) {
	t.Cleanup(func() { Replace(nil) })

	require.NoError(t, InitWithFormat("chatty", "unknown-format"))

	core := Logger().Core()
	require.False(t, core.Enabled(zap.DebugLevel))
	require.True(t, core.Enabled(zap.InfoLevel))
}

func TestInitWithFormats(t *testing.T) {
	t.Cleanup(func() { Replace(nil) })

	for _, format := range []string{FormatJSON, FormatConsole, FormatCloud} {
		require.NoError(t, InitWithFormat("warn", format), format)
		require.True(t, Logger().Core().Enabled(zap.WarnLevel), format)
	}
}

func TestCloudEncoderUsesSeverityNames(t *testing.T) {
	enc := cloudEncoderConfig()
	require.Equal(t, "severity", enc.LevelKey)
	require.Equal(t, "message", enc.MessageKey)

	arr := &levelRecorder{}
	enc.EncodeLevel(zapcore.WarnLevel, arr)
	enc.EncodeLevel(zapcore.ErrorLevel, arr)
	require.Equal(t, []string{"WARNING", "ERROR"}, arr.values)
}

func TestLoggingHelpersEmitEntries(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	t.Cleanup(func() { Replace(nil) })
	Replace(zap.New(core))

	Info("info message", zap.String("k", "v"))
	Error("error message")
	Warn("warn message")
	Debug("debug message")

	require.Equal(t, 4, recorded.Len())

	messages := recorded.All()
	want := []string{"info message", "error message", "warn message", "debug message"}
	for i, entry := range messages {
		require.Equal(t, want[i], entry.Message)
	}
	require.Equal(t, "v", messages[0].ContextMap()["k"])
}

func TestWithModuleAttachesModuleField(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	t.Cleanup(func() { Replace(nil) })
	Replace(zap.New(core))

	WithModule("forwarder").Info("module test")

	entries := recorded.All()
	require.Len(t, entries, 1)
	require.Equal(t, "forwarder", entries[0].ContextMap()["module"])
}

type levelRecorder struct {
	values []string
}

func (r *levelRecorder) AppendString(v string) { r.values = append(r.values, v) }

func (r *levelRecorder) AppendBool(bool)              {}
func (r *levelRecorder) AppendByteString([]byte)      {}
func (r *levelRecorder) AppendComplex128(complex128)  {}
func (r *levelRecorder) AppendComplex64(complex64)    {}
func (r *levelRecorder) AppendFloat64(float64)        {}
func (r *levelRecorder) AppendFloat32(float32)        {}
func (r *levelRecorder) AppendInt(int)                {}
func (r *levelRecorder) AppendInt64(int64)            {}
func (r *levelRecorder) AppendInt32(int32)            {}
func (r *levelRecorder) AppendInt16(int16)            {}
func (r *levelRecorder) AppendInt8(int8)              {}
func (r *levelRecorder) AppendUint(uint)              {}
func (r *levelRecorder) AppendUint64(uint64)          {}
func (r *levelRecorder) AppendUint32(uint32)          {}
func (r *levelRecorder) AppendUint16(uint16)          {}
func (r *levelRecorder) AppendUint8(uint8)            {}
func (r *levelRecorder) AppendUintptr(uintptr)        {}
