package studio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"peak/pkg/continuity"
	"peak/pkg/inference"
	"peak/pkg/prompt"
	"peak/pkg/schema"
	"peak/pkg/utils"
)

const (
	MsgMissingCredential = "Please enter your Gemini API Key in the configuration section."
	MsgInvalidCredential = "Invalid API Key: Please check your Gemini API key and try again."
	MsgGenerationFailed  = "Generation failed."
)

// Outcome labels one generation attempt.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeMissingSubject    Outcome = "missing_subject"
	OutcomeMissingCredential Outcome = "missing_credential"
	OutcomeInvalidForm       Outcome = "invalid_form"
	OutcomeInvalidCredential Outcome = "invalid_credential"
	OutcomeMalformed         Outcome = "malformed_response"
	OutcomeBusy              Outcome = "busy"
	OutcomeError             Outcome = "error"
)

// OutcomeOf classifies an error returned by Generate.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrBusy):
		return OutcomeBusy
	case errors.Is(err, prompt.ErrMissingSubject):
		return OutcomeMissingSubject
	case errors.Is(err, prompt.ErrMissingCredential):
		return OutcomeMissingCredential
	case errors.Is(err, prompt.ErrInvalidForm):
		return OutcomeInvalidForm
	case errors.Is(err, inference.ErrInvalidCredential):
		return OutcomeInvalidCredential
	case errors.Is(err, schema.ErrMalformedResponse):
		return OutcomeMalformed
	}
	return OutcomeError
}

// Message is the text shown to the user for a Generate error.
func Message(err error) string {
	switch OutcomeOf(err) {
	case OutcomeSuccess:
		return ""
	case OutcomeMissingCredential:
		return MsgMissingCredential
	case OutcomeInvalidCredential:
		return MsgInvalidCredential
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgGenerationFailed
}

// Result is a fresh script together with its continuity report.
type Result struct {
	Script     schema.Script     `json:"script"`
	Continuity continuity.Report `json:"continuity"`
}

// Generate runs the form through the model and, on success, prepends the
// new script to the history and shows it. On failure the history is left as
// it was and the form is shown again with the error.
func (s *Studio) Generate(ctx context.Context, form schema.Form) (Result, error) {
	start := s.opts.now()
	res, err := s.generate(ctx, form)
	if s.opts.Observe != nil {
		s.opts.Observe(OutcomeOf(err), s.opts.now().Sub(start))
	}
	return res, err
}

func (s *Studio) generate(ctx context.Context, form schema.Form) (Result, error) {
	req, err := s.begin(form)
	if err != nil {
		return Result{}, err
	}

	if s.opts.CountTokens {
		if n, err := utils.NumTokens(req.System + req.User); err == nil {
			log.Debug("prompt size", "tokens", n, "chars", len(req.System)+len(req.User))
		}
	}
	log.Info("generating script", "mode", req.Form.Mode, "subject", req.Form.PersonName, "style", req.Form.VisualStyle, "tone", req.Form.Tone, "provider", req.Provider)

	gen, err := s.call(ctx, req)
	if err != nil {
		return Result{}, s.fail(req, err)
	}

	script := schema.Script{
		ID:                s.opts.newID(),
		Title:             gen.Title,
		Mode:              req.Form.Mode,
		PersonName:        req.Form.PersonName,
		VisualStyle:       req.Form.VisualStyle,
		Tone:              req.Form.Tone,
		MasterStylePrompt: gen.MasterStylePrompt,
		Scenes:            gen.Scenes,
		CreatedAt:         s.opts.now().UTC().Format(time.RFC3339),
	}
	report := continuity.Check(script, prompt.SceneCount)
	if !report.Continuous {
		log.Warn("script breaks frame continuity", "id", script.ID, "boundaries", len(report.Boundaries))
	}

	s.succeed(ctx, script)
	log.Info("script generated", "id", script.ID, "title", script.Title, "scenes", len(script.Scenes))
	return Result{Script: script, Continuity: report}, nil
}

// begin validates the submission against the configuration snapshot and
// flips the session to submitting.
func (s *Studio) begin(form schema.Form) (*prompt.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusSubmitting {
		return nil, ErrBusy
	}

	req, err := prompt.Build(form, s.cfg)
	switch {
	case errors.Is(err, prompt.ErrMissingSubject):
		return nil, err
	case errors.Is(err, prompt.ErrMissingCredential):
		s.lastErr = MsgMissingCredential
		s.keyStatus = KeyMissing
		return nil, err
	case err != nil:
		s.lastErr = err.Error()
		return nil, err
	}

	// Submitting from the result view closes it first.
	s.current = nil
	s.status = StatusSubmitting
	s.lastErr = ""
	return req, nil
}

func (s *Studio) call(ctx context.Context, req *prompt.Request) (schema.Generated, error) {
	inf, err := s.connector.Connect(ctx, req.Provider, req.APIKey, req.Model)
	if err != nil {
		return schema.Generated{}, err
	}

	out, err := inf.Infer(ctx, req.Params(), req.System, req.User)
	if err != nil {
		return schema.Generated{}, inference.Classify(err)
	}
	if ok, err := inf.Verify(ctx, out); !ok {
		return schema.Generated{}, fmt.Errorf("%w: %v", schema.ErrMalformedResponse, err)
	}

	gen, err := schema.DecodeGenerated(utils.CleanJSON(out))
	if err != nil {
		log.Debug("model output", "output", utils.LimitStr(out, 2000))
		return schema.Generated{}, err
	}
	return gen, nil
}

func (s *Studio) fail(req *prompt.Request, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = StatusIdle
	s.lastErr = Message(err)
	if errors.Is(err, inference.ErrInvalidCredential) {
		s.keyStatus = KeyError
		if f, ok := s.connector.(forgetter); ok {
			f.Forget(req.Provider, req.APIKey, req.Model)
		}
	}
	log.Error("generation failed", "subject", req.Form.PersonName, "error", err)
	return err
}

func (s *Studio) succeed(ctx context.Context, script schema.Script) {
	s.mu.Lock()
	s.history = append([]schema.Script{script}, s.history...)
	s.current = &script
	s.status = StatusViewing
	s.keyStatus = KeyConnected
	s.lastErr = ""
	s.rev++
	rev, snapshot := s.rev, slices.Clone(s.history)
	s.mu.Unlock()

	s.saveHistory(context.WithoutCancel(ctx), rev, snapshot)
}

// saveHistory writes a history snapshot outside the session lock. A snapshot
// older than one already written is dropped.
func (s *Studio) saveHistory(ctx context.Context, rev int, snapshot []schema.Script) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if rev <= s.savedRev {
		return
	}
	if err := s.store.SaveHistory(ctx, snapshot); err != nil {
		s.mu.Lock()
		s.warn("history could not be saved", err)
		s.mu.Unlock()
		return
	}
	s.savedRev = rev
}
