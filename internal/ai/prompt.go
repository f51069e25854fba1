package ai

import (
	"fmt"
	"strings"
)

// CharacterProfile is the character detail rendered into a story prompt.
type CharacterProfile struct {
	Name        string
	Description string
	Traits      []string
	Backstory   string
}

// noBackstory is the literal rendered for characters without a backstory.
const noBackstory = "None provided"

// BuildStoryPrompt renders the story-generation prompt. It is pure and
// deterministic: identical inputs produce byte-identical output, and
// character blocks appear in input order. additional is included verbatim
// only when non-empty.
func BuildStoryPrompt(title, storyType string, characters []CharacterProfile, additional string) string {
	blocks := make([]string, 0, len(characters))
	for _, char := range characters {
		backstory := char.Backstory
		if backstory == "" {
			backstory = noBackstory
		}
		blocks = append(blocks, fmt.Sprintf("Character: %s\nDescription: %s\nTraits: %s\nBackstory: %s\n",
			char.Name,
			char.Description,
			strings.Join(char.Traits, ", "),
			backstory,
		))
	}

	instructions := ""
	if additional != "" {
		instructions = "Additional instructions: " + additional
	}

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "Generate a %s story with the title: \"%s\".\n", storyType, title)
	b.WriteString("\n")
	b.WriteString("Character Information:\n")
	b.WriteString(strings.Join(blocks, "\n"))
	b.WriteString("\n\n")
	b.WriteString(instructions)
	b.WriteString("\n\n")
	b.WriteString("Write a creative, engaging, and coherent story that features all the provided characters in main roles, along with many fictional ones. The story should have a clear beginning, middle, and end, with strong character development and a satisfying conclusion.\n")
	return b.String()
}
