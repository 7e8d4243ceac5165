/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

// DefaultMaxReferenceDepth bounds how many consecutive reference
// indirections the compiler follows before reporting ErrRecursionLimit.
const DefaultMaxReferenceDepth = 64

// Check is the compiled form of an extension keyword. A non-nil error
// marks the instance as violating the keyword; the error message is
// reported in the record context.
type Check func(instance any) error

// Keyword is an extension keyword registered with WithKeyword. Compile is
// called once per occurrence with the keyword's schema value.
type Keyword interface {
	Name() string
	Compile(value any) (Check, error)
}

// CompileOption is an interface for functional options that can be passed to Compile.
type CompileOption interface {
	apply(*compileOptions)
}

type compileOptions struct {
	registry      *Registry
	strict        bool
	assertFormats bool
	maxRefDepth   int
	formats       map[string]FormatFunc
	keywords      map[string]Keyword
}

type registryCompileOption struct {
	registry *Registry
}

func (o registryCompileOption) apply(opts *compileOptions) {
	opts.registry = o.registry
}

// WithRegistry supplies pre-registered schema documents for cross-document
// references.
func WithRegistry(r *Registry) CompileOption {
	return registryCompileOption{registry: r}
}

type strictCompileOption bool

func (o strictCompileOption) apply(opts *compileOptions) {
	opts.strict = bool(o)
}

// WithStrict makes compilation fail on keywords and formats the compiler
// does not know instead of skipping them.
func WithStrict(b bool) CompileOption {
	return strictCompileOption(b)
}

type formatAssertionCompileOption bool

func (o formatAssertionCompileOption) apply(opts *compileOptions) {
	opts.assertFormats = bool(o)
}

// WithFormatAssertion makes format violations produce error records instead
// of being advisory.
func WithFormatAssertion(b bool) CompileOption {
	return formatAssertionCompileOption(b)
}

type maxReferenceDepthCompileOption int

func (o maxReferenceDepthCompileOption) apply(opts *compileOptions) {
	opts.maxRefDepth = int(o)
}

// WithMaxReferenceDepth overrides DefaultMaxReferenceDepth.
func WithMaxReferenceDepth(depth int) CompileOption {
	return maxReferenceDepthCompileOption(depth)
}

type formatCompileOption struct {
	name string
	fn   FormatFunc
}

func (o formatCompileOption) apply(opts *compileOptions) {
	if opts.formats == nil {
		opts.formats = make(map[string]FormatFunc)
	}
	opts.formats[o.name] = o.fn
}

// WithFormat registers a named format checker. It takes precedence over a
// builtin of the same name.
func WithFormat(name string, fn FormatFunc) CompileOption {
	return formatCompileOption{name: name, fn: fn}
}

type keywordCompileOption struct {
	keyword Keyword
}

func (o keywordCompileOption) apply(opts *compileOptions) {
	if opts.keywords == nil {
		opts.keywords = make(map[string]Keyword)
	}
	opts.keywords[o.keyword.Name()] = o.keyword
}

// WithKeyword registers an extension keyword. Extension keywords cannot
// override the builtin vocabulary.
func WithKeyword(k Keyword) CompileOption {
	return keywordCompileOption{keyword: k}
}

func makeCompileOptions(opts ...CompileOption) compileOptions {
	options := compileOptions{maxRefDepth: DefaultMaxReferenceDepth}
	for _, opt := range opts {
		opt.apply(&options)
	}
	if options.maxRefDepth <= 0 {
		options.maxRefDepth = DefaultMaxReferenceDepth
	}
	return options
}
