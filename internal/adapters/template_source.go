package adapters

import (
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/glimt-studio/skald/internal/core"
)

// TemplateSource loads the raw shell template document.
type TemplateSource interface {
	Load() (string, error)
}

type FileTemplateSource struct {
	Path string
}

func (s FileTemplateSource) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", s.Path, err)
	}
	return string(data), nil
}

type FSTemplateSource struct {
	FS   fs.FS
	Path string
}

func (s FSTemplateSource) Load() (string, error) {
	data, err := fs.ReadFile(s.FS, s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", s.Path, err)
	}
	return string(data), nil
}

type StringTemplateSource struct {
	HTML string
}

func (s StringTemplateSource) Load() (string, error) {
	return s.HTML, nil
}

// TemplateProvider hands out processed templates. In production the template
// is loaded and validated once and cached immutable for the process
// lifetime; in dev mode it is re-read and re-processed on every call so
// template edits are picked up without a restart.
type TemplateProvider struct {
	source      TemplateSource
	mode        core.TemplateMode
	isDev       bool
	containerID string

	mu     sync.Mutex
	loaded bool
	cached string
	err    error
}

func NewTemplateProvider(source TemplateSource, mode core.TemplateMode, isDev bool, containerID string) *TemplateProvider {
	return &TemplateProvider{
		source:      source,
		mode:        mode,
		isDev:       isDev,
		containerID: containerID,
	}
}

func (p *TemplateProvider) Template() (string, error) {
	if p.isDev {
		return p.load()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		p.cached, p.err = p.load()
		p.loaded = true
	}
	return p.cached, p.err
}

// Invalidate drops the cached template and its load error; the next Template
// call loads and processes the source again.
func (p *TemplateProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = false
	p.cached = ""
	p.err = nil
}

func (p *TemplateProvider) load() (string, error) {
	raw, err := p.source.Load()
	if err != nil {
		return "", err
	}
	return core.ProcessTemplate(raw, p.mode, p.isDev, p.containerID)
}
