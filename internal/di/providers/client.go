package providers

import (
	"github.com/samber/do/v2"

	"github.com/babybuddywidgets/bbclient/internal/babybuddy"
	"github.com/babybuddywidgets/bbclient/internal/config"
	"github.com/babybuddywidgets/bbclient/internal/logger"
	"github.com/babybuddywidgets/bbclient/internal/transport"
)

// TransportHandle wraps the HTTP transport with shutdown capability.
type TransportHandle struct {
	*transport.HTTP
}

// Shutdown implements do.ShutdownerWithError.
func (h *TransportHandle) Shutdown() error {
	h.HTTP.Close()
	return nil
}

// ProvideTransport provides the authenticated, rate-limited transport.
func ProvideTransport(i do.Injector) (*TransportHandle, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	log, err := do.Invoke[*logger.Logger](i)
	if err != nil {
		return nil, err
	}

	tr := transport.New(transport.Config{
		Token:   cfg.BabyBuddy.Token,
		Timeout: cfg.HTTP.Timeout,
		RPS:     cfg.HTTP.RateLimitRPS,
		Burst:   cfg.HTTP.RateLimitBurst,
	}, log.Logger)

	return &TransportHandle{HTTP: tr}, nil
}

// ProvideClient provides the Baby Buddy client.
func ProvideClient(i do.Injector) (*babybuddy.Client, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	log, err := do.Invoke[*logger.Logger](i)
	if err != nil {
		return nil, err
	}
	handle, err := do.Invoke[*TransportHandle](i)
	if err != nil {
		return nil, err
	}

	client, err := babybuddy.New(cfg.BabyBuddy.URL, handle.HTTP)
	if err != nil {
		return nil, err
	}
	log.Debug("Baby Buddy client initialized", "base_url", client.BaseURL())

	return client, nil
}
