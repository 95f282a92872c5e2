// Package persona loads reply personas from flat yaml files and renders
// generation prompts from them.
package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
)

// Persona is one voice the replying account can speak with.
type Persona struct {
	Name   string `yaml:"name"`
	Style  string `yaml:"style"`
	System string `yaml:"system"`
}

// builtin is used when the persona directory is absent or empty, so the
// engine always has at least one identity to offer.
var builtin = Persona{
	Name:  "default",
	Style: "warm, concise, specific",
	System: `You are the channel owner's assistant replying to YouTube comments on their behalf.
Reply in the commenter's language. Keep it to one or two sentences, address the
commenter's actual point, and never sound like a template. If the comment needs
no reply (pure emoji, spam, a closed exchange), answer with exactly: SKIP`,
}

// Library holds the personas loaded from a directory. Reload replaces the
// whole set atomically.
type Library struct {
	dir string
	log *zap.Logger

	mu       sync.RWMutex
	personas map[string]Persona
	fallback string
}

func LoadLibrary(dir, fallback string, log *zap.Logger) (*Library, error) {
	l := &Library{dir: dir, log: log, fallback: fallback}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload re-reads every *.yaml/*.yml file in the directory. Files that do
// not parse are skipped with a warning; they must not take the agent down.
func (l *Library) Reload() error {
	personas := map[string]Persona{builtin.Name: builtin}

	entries, err := os.ReadDir(l.dir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			l.log.Warn("persona file unreadable", zap.String("path", path), zap.Error(err))
			continue
		}
		var p Persona
		if err := yaml.Unmarshal(data, &p); err != nil || p.Name == "" || p.System == "" {
			l.log.Warn("persona file skipped", zap.String("path", path), zap.Error(err))
			continue
		}
		personas[p.Name] = p
	}

	l.mu.Lock()
	l.personas = personas
	l.mu.Unlock()
	return nil
}

// Get resolves a persona by name; an empty name means the configured
// fallback identity.
func (l *Library) Get(name string) (Persona, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if name == "" {
		name = l.fallback
	}
	if name == "" {
		name = builtin.Name
	}
	p, ok := l.personas[name]
	if !ok {
		return Persona{}, fmt.Errorf("unknown identity %q", name)
	}
	return p, nil
}

func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.personas))
	for name := range l.personas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildPrompt renders the generation prompt for one task: the persona's
// system text, the video context, the comment, and — for a thread
// continuation — the transcript so far with our own replies marked.
func BuildPrompt(p Persona, task domain.ReplyTask) string {
	var b strings.Builder
	b.WriteString(p.System)
	b.WriteString("\n\n")
	if p.Style != "" {
		fmt.Fprintf(&b, "Voice: %s\n\n", p.Style)
	}

	fmt.Fprintf(&b, "Video: %s\n", task.Video.Title)
	if desc := strings.TrimSpace(task.Video.Description); desc != "" {
		fmt.Fprintf(&b, "Video description: %s\n", truncate(desc, 500))
	}
	fmt.Fprintf(&b, "\nComment by %s:\n%s\n", task.Comment.Author, task.Comment.Text)

	if len(task.Thread) > 0 {
		b.WriteString("\nThread so far, oldest first:\n")
		for _, r := range task.Thread {
			who := r.Author
			if r.IsOurs {
				who += " (you)"
			}
			fmt.Fprintf(&b, "- %s: %s\n", who, r.Text)
		}
		b.WriteString("\nWrite the next reply in this thread.\n")
	} else {
		b.WriteString("\nWrite a reply to this comment.\n")
	}
	b.WriteString("Output only the reply text, or SKIP if no reply is warranted.")
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
