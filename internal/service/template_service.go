package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pagebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Template Service — named document snapshots
// ─────────────────────────────────────────────────────────────

// Ids of the built-in templates.
const (
	BlankTemplateID   = "template-1"
	LandingTemplateID = "template-2"
)

const seedTemplatesJSON = `[
  {"id": "template-1", "name": "Blank Template", "components": []},
  {"id": "template-2", "name": "Simple Landing Page", "components": [
    {
      "id": "header-1",
      "type": "header",
      "content": "Welcome to my landing page",
      "classes": "text-4xl font-bold text-center py-8 bg-blue-500 text-white",
      "customStyles": {
        "backgroundColor": "#3B82F6",
        "color": "#FFFFFF",
        "padding": "32px",
        "textAlign": "center",
        "fontSize": "36px",
        "fontWeight": "bold"
      }
    },
    {
      "id": "hero-1",
      "type": "hero",
      "heading": "Amazing Product",
      "subheading": "The best product you will ever use",
      "content": "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed euismod, nisl vel ultricies lacinia, nisl nisl aliquam nisl, eu aliquam nisl nisl eu nisl.",
      "imageUrl": "https://via.placeholder.com/600x400",
      "classes": "flex flex-col md:flex-row items-center justify-between gap-8 py-16 px-4",
      "customStyles": {
        "padding": "64px",
        "display": "flex",
        "flexDirection": "column"
      }
    },
    {
      "id": "features-1",
      "type": "features",
      "items": [
        {"title": "Feature 1", "description": "Description of feature 1"},
        {"title": "Feature 2", "description": "Description of feature 2"},
        {"title": "Feature 3", "description": "Description of feature 3"}
      ],
      "classes": "grid grid-cols-1 md:grid-cols-3 gap-8 py-16 px-4",
      "customStyles": {
        "padding": "64px",
        "display": "grid",
        "gridTemplateColumns": "repeat(3, 1fr)",
        "gap": "32px"
      }
    },
    {
      "id": "cta-1",
      "type": "cta",
      "heading": "Ready to get started?",
      "buttonText": "Sign Up Now",
      "classes": "text-center py-16 bg-gray-100",
      "customStyles": {
        "padding": "64px",
        "textAlign": "center",
        "backgroundColor": "#F3F4F6"
      }
    }
  ]}
]`

// SeedTemplates returns fresh copies of the built-in templates.
func SeedTemplates() ([]domain.Template, error) {
	var seeds []domain.Template
	if err := json.Unmarshal([]byte(seedTemplatesJSON), &seeds); err != nil {
		return nil, fmt.Errorf("decode seed templates: %w", err)
	}
	return seeds, nil
}

// TemplateService manages the template registry. Saving reads the
// editor's document and loading replaces it.
type TemplateService struct {
	mu        sync.Mutex
	templates []domain.Template
	editor    *Editor
	store     domain.KVStore
	emitter   EventEmitter
	log       *zap.Logger
}

// NewTemplateService creates a TemplateService holding the seed templates.
func NewTemplateService(editor *Editor, store domain.KVStore, emitter EventEmitter, log *zap.Logger) *TemplateService {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	seeds, err := SeedTemplates()
	if err != nil {
		log.Error("built-in templates unavailable", zap.Error(err))
	}
	return &TemplateService{
		templates: seeds,
		editor:    editor,
		store:     store,
		emitter:   emitter,
		log:       log,
	}
}

// Restore reads the registry from the store. On first run the slot is
// absent and the seeds are written to it.
func (s *TemplateService) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	data, ok, err := s.store.Get(ctx, domain.SlotTemplates)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	if !ok {
		s.log.Info("seeding template registry", zap.Int("count", len(s.templates)))
		return s.persistLocked(ctx)
	}
	var list []domain.Template
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("%w: stored templates: %v", ErrInvalidDocument, err)
	}
	for i := range list {
		if list[i].Components == nil {
			list[i].Components = domain.Document{}
		}
	}
	s.templates = list
	return nil
}

func (s *TemplateService) persistLocked(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	data, err := domain.EncodeJSON(s.templates, "")
	if err != nil {
		return fmt.Errorf("encode templates: %w", err)
	}
	if err := s.store.Set(ctx, domain.SlotTemplates, data); err != nil {
		return fmt.Errorf("save templates: %w", err)
	}
	return nil
}

// List returns copies of every template in registry order.
func (s *TemplateService) List() []domain.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Template, len(s.templates))
	for i, t := range s.templates {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the template with id.
func (s *TemplateService) Get(id string) (domain.Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.templates[i].Clone(), true
	}
	return domain.Template{}, false
}

func (s *TemplateService) indexLocked(id string) int {
	for i, t := range s.templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Save stores a copy of the editor's current document under name.
func (s *TemplateService) Save(ctx context.Context, name string) (domain.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.notify(ctx, LevelError, "Template name cannot be empty")
		return domain.Template{}, ErrEmptyTemplateName
	}
	t := domain.Template{
		ID:         "template-" + uuid.NewString(),
		Name:       name,
		Components: s.editor.Document(),
	}
	if t.Components == nil {
		t.Components = domain.Document{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = append(s.templates, t)
	if err := s.persistLocked(ctx); err != nil {
		s.templates = s.templates[:len(s.templates)-1]
		return domain.Template{}, err
	}
	s.log.Info("template saved", zap.String("template_id", t.ID), zap.String("name", name))
	s.notify(ctx, LevelSuccess, "Template saved")
	return t.Clone(), nil
}

// Load replaces the editor's document with a copy of the template.
func (s *TemplateService) Load(ctx context.Context, id string) error {
	t, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	if err := s.editor.Replace(ctx, t.Components, "load_template"); err != nil {
		return err
	}
	s.notify(ctx, LevelSuccess, "Template loaded")
	return nil
}

// Delete removes the template with id.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	removed := s.templates[i]
	s.templates = append(s.templates[:i:i], s.templates[i+1:]...)
	if err := s.persistLocked(ctx); err != nil {
		s.templates = append(s.templates[:i:i], append([]domain.Template{removed}, s.templates[i:]...)...)
		return err
	}
	s.notify(ctx, LevelSuccess, "Template deleted")
	return nil
}

func (s *TemplateService) notify(ctx context.Context, level, message string) {
	s.emitter.Emit(ctx, EventNotify, Notice{Level: level, Message: message})
}
