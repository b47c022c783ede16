package generate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/achneerov/dreamrender/pkg/audit"
	"github.com/achneerov/dreamrender/pkg/keywords"
	"github.com/achneerov/dreamrender/pkg/llm"
	"github.com/achneerov/dreamrender/pkg/middleware"
	"github.com/achneerov/dreamrender/pkg/prompt"
)

// Registrar records the generation context of a session's first request.
// session.Store satisfies it.
type Registrar interface {
	RegisterIfAbsent(sessionID, initialPrompt string) bool
}

// Config holds the Orchestrator's collaborators.
type Config struct {
	Completer llm.Completer
	Sessions  Registrar
	Keywords  keywords.Source
	Audit     audit.Logger
	Params    Params
}

// Orchestrator resolves prompts and streams model output.
type Orchestrator struct {
	completer llm.Completer
	sessions  Registrar
	keywords  keywords.Source
	audit     audit.Logger
	params    Params
	now       func() time.Time
}

// New creates an Orchestrator. Audit defaults to a no-op logger and zero
// sampling parameters take their defaults.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Completer == nil {
		return nil, errors.New("generate: completer is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("generate: session store is required")
	}
	if cfg.Keywords == nil {
		return nil, errors.New("generate: keyword source is required")
	}
	if cfg.Audit == nil {
		cfg.Audit = audit.NoopLogger{}
	}

	defaults := DefaultParams()
	if cfg.Params.Temperature == 0 {
		cfg.Params.Temperature = defaults.Temperature
	}
	if cfg.Params.TopP == 0 {
		cfg.Params.TopP = defaults.TopP
	}
	if cfg.Params.MaxTokens == 0 {
		cfg.Params.MaxTokens = defaults.MaxTokens
	}

	return &Orchestrator{
		completer: cfg.Completer,
		sessions:  cfg.Sessions,
		keywords:  cfg.Keywords,
		audit:     cfg.Audit,
		params:    cfg.Params,
		now:       time.Now,
	}, nil
}

// Generate resolves the prompt for req, registers the session context and
// streams the completion through emit, one fragment per call, in order.
//
// Any completer error or emit error stops the stream and is returned as an
// *Error. Fragments already emitted are not retracted.
func (o *Orchestrator) Generate(ctx context.Context, req Request, emit func(fragment string) error) (Result, error) {
	start := o.now()
	res := Result{Kind: req.Kind()}

	var userPrompt string
	if res.Kind == KindInitial {
		res.Keyword = o.keywords.Random()
		userPrompt = prompt.Initial(res.Keyword)
	} else {
		userPrompt = prompt.Navigation(req.CurrentContext, req.Prompt, req.CachedPages)
	}

	if o.sessions.RegisterIfAbsent(req.SessionID, userPrompt) {
		slog.Debug("generate: registered session context", "session_id", req.SessionID, "kind", res.Kind)
	}

	err := o.stream(ctx, userPrompt, emit, &res)

	event := audit.NewEvent(res.Kind).
		WithSession(req.SessionID).
		WithRequestID(middleware.RequestID(ctx)).
		WithModel(o.completer.Name()).
		WithPrompt(res.Keyword, len(userPrompt), len(req.CachedPages)).
		WithResponseSize(res.Chars, res.Fragments)
	if err != nil {
		event.WithResult(false, err.Error(), o.now().Sub(start).Milliseconds())
	} else {
		event.WithResult(true, "", o.now().Sub(start).Milliseconds())
	}
	o.record(ctx, event)

	if err != nil {
		return res, &Error{Kind: res.Kind, Err: err}
	}
	return res, nil
}

func (o *Orchestrator) stream(ctx context.Context, userPrompt string, emit func(string) error, res *Result) error {
	req := llm.Request{
		Messages:    []llm.Message{llm.UserMessage(userPrompt)},
		Temperature: o.params.Temperature,
		TopP:        o.params.TopP,
		MaxTokens:   o.params.MaxTokens,
	}

	for fragment, err := range o.completer.Stream(ctx, req) {
		if err != nil {
			return err
		}
		if fragment == "" {
			continue
		}
		if err := emit(fragment); err != nil {
			return err
		}
		res.Fragments++
		res.Chars += len(fragment)
	}
	return nil
}

// record writes the audit event. Failures are logged and swallowed.
func (o *Orchestrator) record(ctx context.Context, event *audit.Event) {
	if err := o.audit.Log(context.WithoutCancel(ctx), *event); err != nil {
		slog.Warn("generate: audit log failed", "event_id", event.ID, "error", err)
	}
}
