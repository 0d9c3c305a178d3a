package bch

import "sync"

type codeEntry struct {
	once sync.Once
	code *Code
	err  error
}

var (
	sharedMu sync.Mutex
	shared   = make(map[Config]*codeEntry)
)

// Shared returns a process-wide Code for cfg with default options. The
// first caller for a configuration builds it; concurrent callers wait for
// that construction and then share the instance.
func Shared(cfg Config) (*Code, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	sharedMu.Lock()
	e, ok := shared[cfg]
	if !ok {
		e = &codeEntry{}
		shared[cfg] = e
	}
	sharedMu.Unlock()

	e.once.Do(func() {
		e.code, e.err = New(cfg)
	})
	return e.code, e.err
}
