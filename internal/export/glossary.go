package export

import (
	"encoding/json"
	"sort"
	"strings"

	"gorm.io/datatypes"

	"github.com/campusforge/portal-export/internal/richtext"
)

// GlossaryTerm is the normalized form of one glossary entry. Stored entries
// come from two editor generations with divergent key names.
type GlossaryTerm struct {
	Word        string
	Explanation string
	Example     string
	CategoryID  string
	Tags        []string
}

// GlossaryCategory groups terms under a named heading.
type GlossaryCategory struct {
	ID    string
	Name  string
	Terms []GlossaryTerm
}

// ParseGlossary decodes a stored glossary blob into ordered categories. The
// blob holds {"categories": [...], "terms": [...]} or a bare term array.
// Terms whose category is missing or unknown collect under a trailing
// "Autres termes" bucket. Each term appears exactly once.
func ParseGlossary(raw datatypes.JSON) []GlossaryCategory {
	if len(raw) == 0 {
		return nil
	}

	var envelope struct {
		Categories []map[string]any `json:"categories"`
		Terms      []map[string]any `json:"terms"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Terms) == 0 {
		var bare []map[string]any
		if err := json.Unmarshal(raw, &bare); err != nil || len(bare) == 0 {
			return nil
		}
		envelope.Terms = bare
	}

	categories := make([]GlossaryCategory, 0, len(envelope.Categories)+1)
	index := make(map[string]int, len(envelope.Categories))
	for _, cat := range envelope.Categories {
		id := firstString(cat, "id", "category_id", "categoryId")
		name := firstString(cat, "name", "label", "title")
		if name == "" {
			continue
		}
		if id == "" {
			id = name
		}
		index[id] = len(categories)
		categories = append(categories, GlossaryCategory{ID: id, Name: name})
	}

	var uncategorized []GlossaryTerm
	for _, entry := range envelope.Terms {
		term := normalizeTerm(entry)
		if term.Word == "" {
			continue
		}
		if pos, ok := index[term.CategoryID]; ok {
			categories[pos].Terms = append(categories[pos].Terms, term)
		} else {
			uncategorized = append(uncategorized, term)
		}
	}

	out := categories[:0]
	for _, cat := range categories {
		if len(cat.Terms) > 0 {
			sortTerms(cat.Terms)
			out = append(out, cat)
		}
	}
	if len(uncategorized) > 0 {
		sortTerms(uncategorized)
		out = append(out, GlossaryCategory{ID: "uncategorized", Name: "Autres termes", Terms: uncategorized})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeTerm reconciles the key variants each editor generation produced.
func normalizeTerm(entry map[string]any) GlossaryTerm {
	term := GlossaryTerm{
		Word:        firstString(entry, "word", "term", "name"),
		Explanation: firstString(entry, "explanation", "definition", "description"),
		Example:     firstString(entry, "example", "usage"),
		CategoryID:  firstString(entry, "category_id", "categoryId", "category"),
	}
	if tags, ok := entry["tags"].([]any); ok {
		for _, tag := range tags {
			if s, ok := tag.(string); ok && strings.TrimSpace(s) != "" {
				term.Tags = append(term.Tags, s)
			}
		}
	}
	return term
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func sortTerms(terms []GlossaryTerm) {
	sort.SliceStable(terms, func(i, j int) bool {
		return strings.ToLower(terms[i].Word) < strings.ToLower(terms[j].Word)
	})
}

func glossaryHTML(categories []GlossaryCategory) string {
	if len(categories) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="glossary"><h2>Glossaire</h2>`)
	for _, cat := range categories {
		b.WriteString(`<h3 class="glossary-category">` + richtext.EscapeHTML(cat.Name) + "</h3><dl>")
		for _, term := range cat.Terms {
			b.WriteString("<dt>" + richtext.EscapeHTML(term.Word) + "</dt>")
			if term.Explanation != "" {
				b.WriteString("<dd>" + richtext.EscapeHTML(term.Explanation) + "</dd>")
			}
			if term.Example != "" {
				b.WriteString(`<dd class="glossary-example">` + richtext.EscapeHTML(term.Example) + "</dd>")
			}
			if len(term.Tags) > 0 {
				b.WriteString(`<dd class="glossary-tags">` + richtext.EscapeHTML(strings.Join(term.Tags, ", ")) + "</dd>")
			}
		}
		b.WriteString("</dl>")
	}
	b.WriteString("</div>\n")
	return b.String()
}

func glossaryMarkdown(categories []GlossaryCategory) string {
	if len(categories) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Glossaire\n\n")
	for _, cat := range categories {
		b.WriteString("### " + cat.Name + "\n\n")
		for _, term := range cat.Terms {
			b.WriteString("**" + term.Word + "**")
			if term.Explanation != "" {
				b.WriteString(" : " + term.Explanation)
			}
			b.WriteString("\n")
			if term.Example != "" {
				b.WriteString("  _" + term.Example + "_\n")
			}
			if len(term.Tags) > 0 {
				b.WriteString("  `" + strings.Join(term.Tags, "` `") + "`\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
