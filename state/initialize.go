package state

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"cssvm/config"
	"cssvm/css"
	"cssvm/dom"
	"cssvm/factory"
	"cssvm/resolve"
	"cssvm/view"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:            time.Now(),
		DefaultUserAgent: css.DefaultUserAgent(),
	}
}

func (e *LocalEnv) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

func (e *LocalEnv) engine() config.EngineConfig {
	if e.Cfg == nil {
		return config.EngineConfig{}
	}
	return e.Cfg.Engine
}

// Factories returns value factories for every supported property.
func (e *LocalEnv) Factories() *factory.Map {
	engine := e.engine()
	return factory.NewDefaultMap(nil, e.logger(), engine.FactoryOptions())
}

// Resolvers returns relative value resolvers for every supported property.
func (e *LocalEnv) Resolvers() *resolve.Registry {
	engine := e.engine()
	return resolve.NewDefaultRegistry(engine.ResolverOptions())
}

// Stylesheets returns user agent and user sheets. Configured files replace
// built-in user agent sheet. Sheets are read once and stored in the debug
// report when one is requested.
func (e *LocalEnv) Stylesheets() (ua, user []*css.Stylesheet, err error) {
	if e.sheetsLoaded {
		return e.userAgent, e.user, nil
	}

	engine := e.engine()
	parser := css.NewParser(e.logger())

	load := func(origin, path string) (*css.Stylesheet, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read stylesheet: %w", err)
		}
		if err := e.Rpt.StoreCopy(config.ReportName("sheets/"+origin, path), path); err != nil {
			e.logger().Warn("Unable to copy stylesheet into report", zap.String("file", path), zap.Error(err))
		}
		sheet := parser.Parse(data, path)
		for _, w := range sheet.Warnings {
			e.logger().Warn("Stylesheet", zap.String("file", path), zap.String("warning", w))
		}
		return sheet, nil
	}

	if len(engine.UserAgentStylesheet) > 0 {
		sheet, err := load("user-agent", engine.UserAgentStylesheet)
		if err != nil {
			return nil, nil, err
		}
		e.userAgent = append(e.userAgent, sheet)
	} else {
		e.userAgent = append(e.userAgent, parser.Parse(e.DefaultUserAgent, "default.css"))
	}
	if len(engine.UserStylesheet) > 0 {
		sheet, err := load("user", engine.UserStylesheet)
		if err != nil {
			return nil, nil, err
		}
		e.user = append(e.user, sheet)
	}

	e.sheetsLoaded = true
	return e.userAgent, e.user, nil
}

// NewView prepares computed style view over doc using program
// configuration.
func (e *LocalEnv) NewView(doc dom.Document) (*view.View, error) {
	ua, user, err := e.Stylesheets()
	if err != nil {
		return nil, err
	}
	engine := e.engine()
	opts := view.Options{
		Medium:                 engine.Medium,
		UserAgent:              ua,
		User:                   user,
		PresentationAttributes: e.Cfg == nil || engine.PresentationAttributes,
		InheritFallback:        engine.ResolverOptions().InheritFallback,
	}
	return view.New(doc, e.Factories(), e.Resolvers(), opts, e.logger()), nil
}
