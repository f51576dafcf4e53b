package platform

import (
	"context"

	"github.com/aretw0/sticky/pkg/core"
	"github.com/aretw0/sticky/pkg/gateway"
	"github.com/aretw0/sticky/pkg/session"
	"github.com/aretw0/sticky/pkg/undo"
)

// New wires a session over the configured backend.
//
//	s, err := sticky.New("./board", sticky.WithAdapter("fs"))
//
// The URI argument is adapter-specific (see Init).
func New(uri string, opts ...Option) (*session.Session, error) {
	return Open(context.Background(), uri, opts...)
}

// Open is New with a caller-provided context for the initial load.
func Open(ctx context.Context, uri string, opts ...Option) (*session.Session, error) {
	o := resolve(opts)

	storage, err := initStorage(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	normalizer := core.Normalizer{Now: o.clock, NewID: o.ids}
	gw := gateway.New(storage, gateway.Config{
		Key:        o.key,
		Normalizer: normalizer,
		Logger:     o.logger,
		ReadOnly:   isReadOnly(o),
	})

	undoConfig := undo.Stacked()
	if o.undo != nil {
		undoConfig = *o.undo
	}
	if undoConfig.NewID == nil {
		undoConfig.NewID = o.ids
	}

	s, err := session.Open(ctx, gw, session.Config{
		Normalizer: normalizer,
		Undo:       undoConfig,
		Logger:     o.logger,
	})
	if err != nil {
		if c, ok := storage.(interface{ Close() error }); ok && o.storage == nil {
			_ = c.Close()
		}
		return nil, err
	}

	o.logger.Debug("session opened", "adapter", o.adapter, "key", gw.Key())
	return s, nil
}
