package models

import "strings"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn sent to a prompt driver
type Message struct {
	Role    string
	Content string
}

// PromptStack is the provider-agnostic request handed to a prompt driver.
// Grounding holds retrieved text the answer must be based on.
type PromptStack struct {
	Rulesets  []Ruleset
	Grounding []string
	Messages  []Message
}

// AddUserMessage appends a user turn
func (p *PromptStack) AddUserMessage(content string) {
	p.Messages = append(p.Messages, Message{Role: RoleUser, Content: content})
}

// SystemPrompt renders rulesets and grounding into a single system instruction
func (p *PromptStack) SystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are an expert Q&A system. Answer the user's question using only the text below. ")
	sb.WriteString("If the answer is not in the text, say that you could not find it.\n")

	if len(p.Grounding) > 0 {
		sb.WriteString("\nText:\n")
		sb.WriteString(strings.Join(p.Grounding, "\n\n"))
		sb.WriteString("\n")
	}

	if len(p.Rulesets) > 0 {
		sb.WriteString("\nWhen responding, always use the following rulesets:\n")
		for i, rs := range p.Rulesets {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(rs.Render())
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// LastUserMessage returns the content of the most recent user turn
func (p *PromptStack) LastUserMessage() string {
	for i := len(p.Messages) - 1; i >= 0; i-- {
		if p.Messages[i].Role == RoleUser {
			return p.Messages[i].Content
		}
	}
	return ""
}
