// Package logger wraps zerolog with a process root logger and
// request and publish-operation scoped children
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"wikipub/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options selects level, output and the fields every line carries
type Options struct {
	Level     string            // zerolog level name; "warning" is accepted
	Format    string            // "console" for humans, anything else is JSON
	Out       io.Writer         // stdout when nil
	Service   string
	Component string
	Fields    map[string]string // extra static fields
	Caller    bool
	SampleN   int // keep one line in N when N > 1
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_COMPONENT, LOG_CALLER and
// LOG_SAMPLE_EVERY. It goes through config/raw so reading config never logs
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	opt := Options{
		Level:     env.Get("LEVEL", "info"),
		Format:    env.Get("FORMAT", "console"),
		Service:   env.Get("SERVICE", "wikipub"),
		Component: env.Get("COMPONENT", ""),
		Caller:    env.GetBool("CALLER", false),
		SampleN:   env.GetInt("SAMPLE_EVERY", 0),
	}
	opt.Level = strings.ToLower(opt.Level)
	opt.Format = strings.ToLower(opt.Format)
	return opt
}

var (
	root      atomic.Pointer[zerolog.Logger]
	lazyRoot  sync.Once
	globalSet sync.Once
)

// Logger is an alias so callers never import zerolog for the type
type Logger = zerolog.Logger

// Get returns the root logger. Without a prior Init it is built from LOG_* once
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	lazyRoot.Do(func() {
		if root.Load() == nil {
			Init(FromEnv())
		}
	})
	return root.Load()
}

// Init swaps in a new root logger built from opt
func Init(opt Options) {
	globalSet.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	})
	l := New(opt)
	root.Store(&l)
}

// New builds a standalone logger; the root is left alone
func New(opt Options) Logger {
	out := opt.Out
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(parseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		ctx = ctx.Str("go_version", bi.GoVersion)
	}
	for _, kv := range [...][2]string{{"service", opt.Service}, {"component", opt.Component}} {
		if kv[1] != "" {
			ctx = ctx.Str(kv[0], kv[1])
		}
	}
	for k, v := range opt.Fields {
		ctx = ctx.Str(k, v)
	}
	if opt.Caller {
		ctx = ctx.Caller()
	}

	l := ctx.Logger()
	if opt.SampleN > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleN)})
	}
	return l
}

// parseLevel accepts zerolog level names plus "warning"; anything else is info
func parseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return zerolog.WarnLevel
	}
	if lvl, err := zerolog.ParseLevel(name); err == nil && name != "" {
		return lvl
	}
	return zerolog.InfoLevel
}

type ctxKey int

const (
	keyRequestID ctxKey = iota + 1
	keyOperationID
	keyAccount
)

// WithRequest annotates ctx with the inbound request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	return ctx
}

// WithOperation annotates ctx with a publishing operation id and the wiki account acting
// Every attempt of one publish shares the id, so log lines can be grouped
func WithOperation(ctx context.Context, opID, account string) context.Context {
	if opID != "" {
		ctx = context.WithValue(ctx, keyOperationID, opID)
	}
	if account != "" {
		ctx = context.WithValue(ctx, keyAccount, account)
	}
	return ctx
}

// OperationID returns the operation id stored by WithOperation, if any
func OperationID(ctx context.Context) string {
	s, _ := ctx.Value(keyOperationID).(string)
	return s
}

var ctxFields = [...]struct {
	key   ctxKey
	field string
}{
	{keyRequestID, "request_id"},
	{keyOperationID, "operation_id"},
	{keyAccount, "account"},
}

// C returns the root logger carrying whatever request_id, operation_id and account ctx holds
func C(ctx context.Context) *Logger {
	b := Get().With()
	for _, f := range ctxFields {
		if s, _ := ctx.Value(f.key).(string); s != "" {
			b = b.Str(f.field, s)
		}
	}
	l := b.Logger()
	return &l
}

// Named returns a child of the root tagged with component; "" gives the root itself
func Named(component string) *Logger {
	l := Get()
	if component != "" {
		child := l.With().Str("component", component).Logger()
		l = &child
	}
	return l
}
