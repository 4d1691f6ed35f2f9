package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/drblury/docweaver/apidoc"
	"github.com/drblury/docweaver/config"
	"github.com/drblury/docweaver/fragment"
	"github.com/drblury/docweaver/info"
	"github.com/drblury/docweaver/mongostore"
	"github.com/drblury/docweaver/probe"
	"github.com/drblury/docweaver/responder"
	"github.com/drblury/docweaver/router"
	"github.com/drblury/docweaver/routes"
)

// app is the assembled server: a route table with the documentation
// registry bound at the configured base path and everything it reads from.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	responder *responder.Responder
	table     *routes.Table
	doc       apidoc.Document
	mongo     *mongo.Client
	readiness []probe.Func
}

func connectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout.Duration)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout.Duration))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return client, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	version, err := cfg.DocumentVersion()
	if err != nil {
		return nil, err
	}

	resp := responder.NewResponder(responder.WithLogger(logger))
	a := &app{
		cfg:       cfg,
		logger:    logger,
		responder: resp,
		table:     routes.NewTable(routes.WithResponder(resp)),
	}

	docOpts := []apidoc.Option{
		apidoc.WithLogger(logger),
		apidoc.WithResponder(resp),
		apidoc.WithFileDirectory(cfg.FileDirectory),
		apidoc.WithBasePath(cfg.BasePath),
	}
	if cfg.Host != "" {
		docOpts = append(docOpts, apidoc.WithHost(cfg.Host))
	}
	if cfg.Placeholders {
		docOpts = append(docOpts, apidoc.WithPlaceholders())
	}

	switch version {
	case apidoc.V1:
		a.registerV1(docOpts)
	case apidoc.V2:
		if err := a.registerV2(ctx, docOpts); err != nil {
			return nil, err
		}
	}

	doc, ok := a.table.GetExactMatch(http.MethodGet, cfg.BasePath).(apidoc.Document)
	if !ok {
		return nil, fmt.Errorf("no document bound at %s", cfg.BasePath)
	}
	a.doc = doc
	a.readiness = append([]probe.Func{probe.NewDocumentProbe("docs", doc)}, a.readiness...)
	return a, nil
}

func (a *app) registerV1(opts []apidoc.Option) {
	builder := apidoc.NewBuilder(opts...)
	builder.SetAPIDoc(a.table)
	for _, api := range a.cfg.APIs {
		if api.Path != "" {
			builder.RegisterFile(a.table, api.Name, api.Description, api.Path)
			continue
		}
		builder.Register(a.table, api.Name, api.Description)
	}
}

func (a *app) registerV2(ctx context.Context, opts []apidoc.Option) error {
	builder := apidoc.NewBuilder20(opts...)
	builder.SetAPIDoc(a.table)
	for _, api := range a.cfg.APIs {
		if api.Path != "" {
			builder.Register(a.table, fragment.File(api.Path))
			continue
		}
		builder.RegisterAPIFile(a.table, api.Name)
	}
	for _, def := range a.cfg.Definitions {
		builder.AddDefinitionsFile(a.table, definitionFile(a.cfg.FileDirectory, def))
	}

	if !a.cfg.Mongo.Enabled() {
		return nil
	}

	client, err := connectMongo(ctx, a.cfg.Mongo)
	if err != nil {
		return err
	}
	a.mongo = client
	a.readiness = append(a.readiness, probe.NewMongoPingProbe(client, nil))

	store := mongostore.New(
		client.Database(a.cfg.Mongo.Database).Collection(a.cfg.Mongo.Collection),
		mongostore.WithLogger(a.logger),
	)
	for _, name := range a.cfg.Mongo.APIs {
		builder.Register(a.table, store.Fragment(name))
	}
	for _, name := range a.cfg.Mongo.Definitions {
		builder.AddDefinition(a.table, store.Fragment(name))
	}
	a.logger.Info("mongo fragments registered",
		"database", a.cfg.Mongo.Database,
		"collection", a.cfg.Mongo.Collection,
		"apis", len(a.cfg.Mongo.APIs),
		"definitions", len(a.cfg.Mongo.Definitions),
	)
	return nil
}

// handler mounts the info endpoints and wraps the table in the middleware
// chain. Validation is described from the routes mounted at this point.
func (a *app) handler() (http.Handler, error) {
	uiType, err := info.ParseUIType(a.cfg.UI)
	if err != nil {
		return nil, err
	}

	infoHandler := info.NewInfoHandler(
		info.WithInfoResponder(a.responder),
		info.WithSpecURL(a.cfg.BasePath),
		info.WithUIType(uiType),
		info.WithInfoProvider(a.buildInfo),
		info.WithReadinessChecks(a.readiness...),
	)
	paths := info.DefaultPaths()
	if err := infoHandler.Mount(a.table, paths); err != nil {
		return nil, err
	}

	rc := a.cfg.Router
	opts := []router.Option{
		router.WithLogger(a.logger),
		router.WithConfig(router.Config{
			Timeout: rc.Timeout.Duration,
			CORS: router.CORSConfig{
				Origins:          rc.CORS.Origins,
				Methods:          rc.CORS.Methods,
				Headers:          rc.CORS.Headers,
				AllowCredentials: rc.CORS.AllowCredentials,
			},
			QuietdownRoutes: append([]string{paths.Status, paths.Healthz, paths.Readyz}, rc.QuietdownRoutes...),
			HideHeaders:     rc.HideHeaders,
		}),
		router.WithStreamingRoutes(a.cfg.BasePath),
	}
	if rc.ValidateRequests {
		opts = append(opts, router.WithRouteValidation("docweaver", buildVersion()))
	} else {
		opts = append(opts, router.WithoutOpenAPIValidation())
	}
	return router.New(a.table, opts...), nil
}

func (a *app) buildInfo() any {
	return map[string]string{
		"version":         buildVersion(),
		"documentVersion": a.doc.Version().String(),
		"basePath":        a.cfg.BasePath,
	}
}

func (a *app) close(ctx context.Context) error {
	if a.mongo == nil {
		return nil
	}
	if err := a.mongo.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

// definitionFile lets configuration name definitions files plainly. The
// builder joins directory and name without a separator.
func definitionFile(dir, name string) string {
	if strings.HasSuffix(dir, "/") || strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

func buildVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "dev"
}
