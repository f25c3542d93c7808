package services

import (
	"fmt"
	"strings"

	"site-assistant/models"
)

const (
	// MaxExcerptChars caps the page text put into a prompt
	MaxExcerptChars = 6000

	// NoInformationReply is the exact sentence the model must use when the
	// answer is not covered by the supplied context
	NoInformationReply = "I'm sorry — the website does not provide this information."
)

// Persona names the assistant and the business it speaks for
type Persona struct {
	AssistantName string
	BusinessName  string
}

// Selection is the topic page chosen for a message together with its cached text
type Selection struct {
	Source models.TopicSource
	Text   string
}

// BuildSystemPrompt assembles the system message from the business context
// and an optional page excerpt.
func BuildSystemPrompt(persona Persona, baseContext string, sel *Selection) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("You are %s, the virtual assistant of %s. ", persona.AssistantName, persona.BusinessName))
	prompt.WriteString("Answer only using the information supplied below and do not make anything up. ")
	prompt.WriteString("Be concise.\n\n")

	prompt.WriteString("General business context:\n")
	prompt.WriteString(baseContext)
	prompt.WriteString("\n\n")

	if sel != nil && sel.Text != "" {
		prompt.WriteString(fmt.Sprintf("%s (source: %s):\n", sel.Source.Label(), sel.Source.URL))
		prompt.WriteString(truncateRunes(sel.Text, MaxExcerptChars))
		prompt.WriteString("\n\n")
		prompt.WriteString(fmt.Sprintf("If your answer uses information from the %s section, cite the source at the end of the answer: %s", sel.Source.Label(), sel.Source.URL))
		return prompt.String()
	}

	prompt.WriteString(fmt.Sprintf("If the answer is not covered by the business context above, reply exactly: %q", NoInformationReply))
	return prompt.String()
}

// truncateRunes keeps the first max characters of s
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
