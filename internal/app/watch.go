package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"process-resolver/internal/core"
)

// Watch reloads resolver every time the definitions file changes, until ctx
// is cancelled. A failed reload is reported through req.OnError and leaves
// the previous definitions published.
func (s Service) Watch(ctx context.Context, resolver *core.Resolver, req WatchRequest) error {
	path := strings.TrimSpace(req.DefinitionsPath)
	if path == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("definitions path is required for watch")
	}
	if s.NewWatcher == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no definitions watcher configured")
	}
	watcher, err := s.NewWatcher(path, req.Debounce)
	if err != nil {
		return err
	}
	changes, err := watcher.Start()
	if err != nil {
		_ = watcher.Stop()
		return err
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			log.Ctx(ctx).Debug().Err(err).Msg("stopping definitions watcher")
		}
	}()

	log.Ctx(ctx).Info().Str("path", path).Msg("watching process definitions")
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			result, err := s.Reload(ctx, resolver, ReloadRequest{DefinitionsPath: path})
			if err != nil {
				log.Ctx(ctx).Error().Err(err).Str("path", path).Msg("reload failed, keeping current definitions")
				if req.OnError != nil {
					req.OnError(err)
				}
				continue
			}
			if req.OnReload != nil {
				req.OnReload(result.Summary)
			}
		}
	}
}
