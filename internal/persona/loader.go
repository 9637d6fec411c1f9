package persona

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/shared"
	"gopkg.in/yaml.v3"
)

const (
	defaultTemperature = 0.7
	defaultTopP        = 0.9
	defaultMaxTokens   = 1024

	FallbackName = "Generic Assistant (Default)"
)

// Source supplies a non-empty, ordered list of personas.
type Source interface {
	Personas() []analysis.Persona
}

type frontMatter struct {
	Name        *string  `yaml:"Name"`
	Temperature *float64 `yaml:"Temperature"`
	TopP        *float64 `yaml:"TopP"`
	MaxTokens   *int     `yaml:"MaxTokens"`
}

// Loader reads *.md persona files from a directory.
type Loader struct {
	dir    string
	logger *slog.Logger

	mu       sync.RWMutex
	personas []analysis.Persona
}

func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		dir:    dir,
		logger: logger.With("component", "persona-loader"),
	}
	l.Reload()
	return l
}

func (l *Loader) Personas() []analysis.Persona {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]analysis.Persona, len(l.personas))
	copy(out, l.personas)
	return out
}

// Find returns the persona with the given name, case-insensitively.
func (l *Loader) Find(name string) (analysis.Persona, error) {
	for _, p := range l.Personas() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return analysis.Persona{}, fmt.Errorf("persona %q: %w", name, shared.ErrNotFound)
}

// Reload rescans the directory. The result always holds at least one persona.
func (l *Loader) Reload() []analysis.Persona {
	personas := l.load()

	l.mu.Lock()
	l.personas = personas
	l.mu.Unlock()

	l.logger.Info("personas loaded", "dir", l.dir, "count", len(personas))
	return personas
}

func (l *Loader) load() []analysis.Persona {
	files, err := filepath.Glob(filepath.Join(l.dir, "*.md"))
	if err != nil || len(files) == 0 {
		return []analysis.Persona{Fallback()}
	}

	var personas []analysis.Persona
	for _, file := range files {
		p, err := ParseFile(file)
		if err != nil {
			l.logger.Warn("skipping persona file", "file", file, "error", err)
			continue
		}
		personas = append(personas, p)
	}

	if len(personas) == 0 {
		return []analysis.Persona{Fallback()}
	}

	sort.SliceStable(personas, func(i, j int) bool {
		return personas[i].Name < personas[j].Name
	})
	return personas
}

func Fallback() analysis.Persona {
	return analysis.NewPersona(FallbackName, "You are a helpful AI assistant. Analyze the interface shown.")
}

func ParseFile(path string) (analysis.Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.Persona{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(name, data)
}

// Parse reads a markdown persona. Optional YAML front matter between "---"
// lines sets Name, Temperature, TopP and MaxTokens; the body is the system prompt.
// Without front matter a leading "# Heading" names the persona.
func Parse(defaultName string, data []byte) (analysis.Persona, error) {
	p := analysis.Persona{
		Name:        defaultName,
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		MaxTokens:   defaultMaxTokens,
	}

	lines := splitLines(data)
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		end := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				end = i
				break
			}
		}
		if end > 0 {
			var fm frontMatter
			if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &fm); err != nil {
				return analysis.Persona{}, fmt.Errorf("parse front matter: %w", err)
			}
			fm.apply(&p)
			p.SystemPrompt = strings.TrimSpace(strings.Join(lines[end+1:], "\n"))
			return p, p.Validate()
		}
	}

	if len(lines) > 0 && strings.HasPrefix(lines[0], "#") {
		p.Name = strings.TrimSpace(strings.TrimLeft(lines[0], "# "))
		p.SystemPrompt = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	} else {
		p.SystemPrompt = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	return p, p.Validate()
}

func (fm frontMatter) apply(p *analysis.Persona) {
	if fm.Name != nil && strings.TrimSpace(*fm.Name) != "" {
		p.Name = strings.TrimSpace(*fm.Name)
	}
	if fm.Temperature != nil {
		p.Temperature = *fm.Temperature
	}
	if fm.TopP != nil {
		p.TopP = *fm.TopP
	}
	if fm.MaxTokens != nil {
		p.MaxTokens = *fm.MaxTokens
	}
}

func splitLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	return lines
}

// Static is a fixed Source, handy for the CLI and tests.
type Static []analysis.Persona

func (s Static) Personas() []analysis.Persona {
	if len(s) == 0 {
		return []analysis.Persona{Fallback()}
	}
	out := make([]analysis.Persona, len(s))
	copy(out, s)
	return out
}
