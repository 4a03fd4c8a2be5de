package translatecmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/translate"
)

type fakeTranslationService struct {
	lastReq  translate.EnsureRequest
	outcomes map[string]translate.Outcome
	err      error
	calls    int
}

func (f *fakeTranslationService) EnsureTranslations(ctx context.Context, req translate.EnsureRequest) (map[string]translate.Outcome, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.outcomes, nil
}

type fakeRegenerator struct {
	kinds   []catalog.Kind
	written int
	err     error
}

func (f *fakeRegenerator) RegenerateAll(ctx context.Context, kind catalog.Kind) (int, error) {
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return 0, f.err
	}
	return f.written, nil
}

func TestTriggerTranslationHandlerDelegates(t *testing.T) {
	id := uuid.New()
	service := &fakeTranslationService{
		outcomes: map[string]translate.Outcome{
			"en": {Status: translate.StatusTranslated},
			"de": {Status: translate.StatusSkipped},
		},
	}
	handler := NewTriggerTranslationHandler(service, nil)

	cmd := TriggerTranslationCommand{Kind: "package", ID: id, Languages: []string{"en", "de"}, Force: true}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if service.calls != 1 {
		t.Fatalf("expected one service call, got %d", service.calls)
	}
	if service.lastReq.Kind != catalog.KindPackage {
		t.Fatalf("expected package kind, got %q", service.lastReq.Kind)
	}
	if service.lastReq.ID != id {
		t.Fatalf("expected id %s, got %s", id, service.lastReq.ID)
	}
	if !service.lastReq.Force {
		t.Fatal("expected force flag to propagate")
	}
}

func TestTriggerTranslationHandlerNormalizesKind(t *testing.T) {
	service := &fakeTranslationService{outcomes: map[string]translate.Outcome{}}
	handler := NewTriggerTranslationHandler(service, nil)

	cmd := TriggerTranslationCommand{Kind: "  Blog ", ID: uuid.New()}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if service.lastReq.Kind != catalog.KindBlog {
		t.Fatalf("expected blog kind, got %q", service.lastReq.Kind)
	}
}

func TestTriggerTranslationHandlerValidation(t *testing.T) {
	service := &fakeTranslationService{}
	handler := NewTriggerTranslationHandler(service, nil)

	cases := []struct {
		name string
		cmd  TriggerTranslationCommand
	}{
		{"missing kind", TriggerTranslationCommand{ID: uuid.New()}},
		{"unknown kind", TriggerTranslationCommand{Kind: "page", ID: uuid.New()}},
		{"missing id", TriggerTranslationCommand{Kind: "blog"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := handler.Execute(context.Background(), tc.cmd)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
		})
	}
	if service.calls != 0 {
		t.Fatalf("expected no service calls, got %d", service.calls)
	}
}

func TestTriggerTranslationHandlerWrapsServiceError(t *testing.T) {
	cause := errors.New("provider down")
	service := &fakeTranslationService{err: cause}
	handler := NewTriggerTranslationHandler(service, nil)

	err := handler.Execute(context.Background(), TriggerTranslationCommand{Kind: "section", ID: uuid.New()})
	if err == nil {
		t.Fatal("expected execution error")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestRegenerateURLsHandlerSingleKind(t *testing.T) {
	regen := &fakeRegenerator{written: 5}
	handler := NewRegenerateURLsHandler(regen, nil)

	if err := handler.Execute(context.Background(), RegenerateURLsCommand{Kind: "package"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(regen.kinds) != 1 || regen.kinds[0] != catalog.KindPackage {
		t.Fatalf("expected single package regeneration, got %v", regen.kinds)
	}
}

func TestRegenerateURLsHandlerAllKinds(t *testing.T) {
	regen := &fakeRegenerator{}
	handler := NewRegenerateURLsHandler(regen, nil)

	if err := handler.Execute(context.Background(), RegenerateURLsCommand{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(regen.kinds) != len(catalog.Kinds()) {
		t.Fatalf("expected %d kinds, got %v", len(catalog.Kinds()), regen.kinds)
	}
}

func TestRegenerateURLsHandlerRejectsUnknownKind(t *testing.T) {
	regen := &fakeRegenerator{}
	handler := NewRegenerateURLsHandler(regen, nil)

	err := handler.Execute(context.Background(), RegenerateURLsCommand{Kind: "widget"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(regen.kinds) != 0 {
		t.Fatal("expected no regeneration calls")
	}
}
