package anvil

import (
	"reflect"

	"go.uber.org/zap"
)

// Option configures a registry at construction time.
type Option interface {
	apply(*registryOptions)
}

// registryOptions holds construction configuration.
type registryOptions struct {
	logger     *zap.Logger
	extraCore  []*Binding
	noDefaults bool
}

// optionFunc adapts a function to Option.
type optionFunc func(*registryOptions)

func (f optionFunc) apply(opts *registryOptions) {
	f(opts)
}

// WithLogger sets the logger used for registry diagnostics. The default is a
// nop logger.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(opts *registryOptions) {
		if logger != nil {
			opts.logger = logger
		}
	})
}

// WithCoreComponent seeds an additional binding into the registry's core
// tier. Core bindings are frozen for the registry's lifetime: later Add,
// AddTransient, Remove, and RemoveAll calls for the abstraction fail with
// ImmutableBindingError.
func WithCoreComponent(abstraction reflect.Type, component *ComponentType) Option {
	return optionFunc(func(opts *registryOptions) {
		opts.extraCore = append(opts.extraCore, &Binding{
			Abstraction: abstraction,
			Component:   component,
		})
	})
}

// WithoutDefaults suppresses the standard bootstrap components. Meant for
// kernels that supply their own complete core table via WithCoreComponent.
func WithoutDefaults() Option {
	return optionFunc(func(opts *registryOptions) {
		opts.noDefaults = true
	})
}

func buildOptions(opts []Option) *registryOptions {
	options := &registryOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt.apply(options)
	}
	return options
}
