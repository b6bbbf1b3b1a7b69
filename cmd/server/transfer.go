package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"camino_routes/internal/store"
	"camino_routes/internal/trail"
)

// exportRoutes writes every stored route as the indented envelope.
func exportRoutes(ctx context.Context, repo store.Repository, w io.Writer, format trail.Format) (int, error) {
	stored, err := repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	b, err := trail.EncodeEnvelope(store.Routes(stored), format)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(b); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	return len(stored), nil
}

type importResult struct {
	Created  int
	Replaced int
}

// importRoutes stores every route of an envelope or bare route body. All
// routes are validated before any is written.
func importRoutes(ctx context.Context, repo store.Repository, decoder *trail.Decoder, body []byte) (importResult, error) {
	var res importResult

	docs, err := trail.ParseEnvelope(body)
	if err != nil {
		return res, err
	}
	routes := make([]trail.Route, 0, len(docs))
	for i, doc := range docs {
		route, err := decoder.DecodeDocument(doc)
		if err != nil {
			return res, fmt.Errorf("route %d: %w", i, err)
		}
		routes = append(routes, route)
	}

	for _, route := range routes {
		_, created, err := store.Save(ctx, repo, route)
		if err != nil {
			return res, fmt.Errorf("store %q: %w", route.RouteID, err)
		}
		if created {
			res.Created++
		} else {
			res.Replaced++
		}
		logrus.WithFields(logrus.Fields{"route_id": route.RouteID, "created": created}).Debug("Imported route")
	}
	return res, nil
}
