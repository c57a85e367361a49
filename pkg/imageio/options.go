package imageio

type Option func(o *options)

type options struct {
	workers int
}

// WithWorkers caps the goroutines used per call. Zero or less uses every CPU.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
