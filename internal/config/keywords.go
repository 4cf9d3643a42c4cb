package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/blackwell-systems/sessiongrade/internal/claude"
)

// KeywordPack is a swappable keyword set loaded from TOML:
//
//	[task]
//	words = ["implement", "fix"]
//	patterns = ['(?i)\brefactor(ing|ed)?\b']
//
//	[approval]
//	words = ["confirm"]
//
// Each non-empty table replaces the corresponding default list.
type KeywordPack struct {
	Task       KeywordTable `toml:"task"`
	Approval   KeywordTable `toml:"approval"`
	Limitation KeywordTable `toml:"limitation"`
}

// KeywordTable holds plain substrings and regular expressions.
type KeywordTable struct {
	Words    []string `toml:"words,omitempty"`
	Patterns []string `toml:"patterns,omitempty"`
}

// Empty reports whether the table defines no matchers.
func (t KeywordTable) Empty() bool {
	return len(t.Words) == 0 && len(t.Patterns) == 0
}

// RuleSet compiles the table into matchers, substrings first.
func (t KeywordTable) RuleSet() (claude.RuleSet, error) {
	rs := claude.Words(t.Words...)
	for _, expr := range t.Patterns {
		p, err := claude.NewPattern(expr)
		if err != nil {
			return nil, err
		}
		rs = append(rs, p)
	}
	return rs, nil
}

// LoadKeywordPack reads and decodes a TOML keyword pack.
func LoadKeywordPack(path string) (*KeywordPack, error) {
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		return nil, fmt.Errorf("reading keyword pack: %w", err)
	}

	var pack KeywordPack
	md, err := toml.Decode(string(data), &pack)
	if err != nil {
		return nil, fmt.Errorf("parsing keyword pack %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing keyword pack %s: unknown key %q", path, undecoded[0].String())
	}
	return &pack, nil
}

// Apply replaces each rule set in base for which the pack has a non-empty
// table.
func (p *KeywordPack) Apply(base claude.Keywords) (claude.Keywords, error) {
	out := base
	for _, t := range []struct {
		name  string
		table KeywordTable
		dst   *claude.RuleSet
	}{
		{"task", p.Task, &out.Task},
		{"approval", p.Approval, &out.Approval},
		{"limitation", p.Limitation, &out.Limitation},
	} {
		if t.table.Empty() {
			continue
		}
		rs, err := t.table.RuleSet()
		if err != nil {
			return claude.Keywords{}, fmt.Errorf("keyword pack [%s]: %w", t.name, err)
		}
		*t.dst = rs
	}
	return out, nil
}

// PackFromConfig builds a words-only pack from the configured lists.
func PackFromConfig(k Keywords) KeywordPack {
	return KeywordPack{
		Task:       KeywordTable{Words: k.Task},
		Approval:   KeywordTable{Words: k.Approval},
		Limitation: KeywordTable{Words: k.Limitation},
	}
}

// WriteKeywordPack encodes a pack as TOML.
func WriteKeywordPack(w io.Writer, pack KeywordPack) error {
	if err := toml.NewEncoder(w).Encode(pack); err != nil {
		return fmt.Errorf("encoding keyword pack: %w", err)
	}
	return nil
}

// Overlay returns base with every non-empty table of p substituted in.
func (p *KeywordPack) Overlay(base KeywordPack) KeywordPack {
	out := base
	if !p.Task.Empty() {
		out.Task = p.Task
	}
	if !p.Approval.Empty() {
		out.Approval = p.Approval
	}
	if !p.Limitation.Empty() {
		out.Limitation = p.Limitation
	}
	return out
}
